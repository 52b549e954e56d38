package models

// Department represents an academic department of the college
type Department struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	HODID *int64 `json:"hodId,omitempty"` // Head of Department, at most one

	HOD *Profile `json:"hod,omitempty"`
}
