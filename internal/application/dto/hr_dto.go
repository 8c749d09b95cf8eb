package dto

// LeaveRequestInput alta o edición de una solicitud de ausencia. Fechas en formato 2006-01-02.
type LeaveRequestInput struct {
	EmployeeName  string `json:"employee_name" validate:"required,max=200"`
	EmployeeEmail string `json:"employee_email" validate:"required,email"`
	Kind          string `json:"kind" validate:"required,oneof=vacation sick personal"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason        string `json:"reason" validate:"max=1000"`
	Version       int64  `json:"version"`
}

// LeaveReviewRequest decisión sobre una solicitud pendiente.
type LeaveReviewRequest struct {
	Approve bool  `json:"approve"`
	Version int64 `json:"version"`
}

// AnnouncementRequest alta o edición de un aviso.
type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Body    string `json:"body" validate:"required,max=5000"`
	Pinned  bool   `json:"pinned"`
	Version int64  `json:"version"`
}
