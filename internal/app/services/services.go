package services

// Services holds all the service instances
type Services struct {
	AuthService       *AuthService
	StudentService    *StudentService
	DepartmentService *DepartmentService
	BatchService      *BatchService
	TemplateService   *TemplateService
	RequestService    *RequestService
}
