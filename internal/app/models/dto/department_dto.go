package dto

import "github.com/acoe/bonafide/internal/app/models"

// CreateDepartmentRequest represents department creation data
type CreateDepartmentRequest struct {
	Name  string `json:"name" binding:"required"`
	Code  string `json:"code" binding:"required"`
	HODID *int64 `json:"hodId"`
}

// UpdateDepartmentRequest represents department update data
type UpdateDepartmentRequest struct {
	Name  string `json:"name" binding:"required"`
	Code  string `json:"code" binding:"required"`
	HODID *int64 `json:"hodId"`
}

// DepartmentResponse represents department information
type DepartmentResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	HODID   *int64 `json:"hodId,omitempty"`
	HODName string `json:"hodName,omitempty"`
}

// NewDepartmentResponse maps a department to its response form
func NewDepartmentResponse(d *models.Department) *DepartmentResponse {
	resp := &DepartmentResponse{
		ID:    d.ID,
		Name:  d.Name,
		Code:  d.Code,
		HODID: d.HODID,
	}
	if d.HOD != nil {
		resp.HODName = d.HOD.FullName()
	}
	return resp
}
