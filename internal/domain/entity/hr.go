package entity

import "time"

// Estados de una solicitud de ausencia. Solo las pendientes admiten edición o revisión.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// Tipos de ausencia.
const (
	LeaveVacation = "vacation"
	LeaveSick     = "sick"
	LeavePersonal = "personal"
)

// LeaveRequest solicitud de ausencia de un empleado. Fechas de calendario, ambas inclusive.
type LeaveRequest struct {
	ID            string     `json:"id"`
	EmployeeName  string     `json:"employee_name"`
	EmployeeEmail string     `json:"employee_email"`
	Kind          string     `json:"kind"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	Reason        string     `json:"reason,omitempty"`
	Status        string     `json:"status"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	Version       int64      `json:"version"`
	CreatedBy     string     `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Days días de calendario cubiertos, contando inicio y fin.
func (l *LeaveRequest) Days() int {
	if l.EndDate.Before(l.StartDate) {
		return 0
	}
	return int(dateOnly(l.EndDate).Sub(dateOnly(l.StartDate)).Hours()/24) + 1
}

// Open informa si la solicitud sigue esperando revisión.
func (l *LeaveRequest) Open() bool { return l.Status == LeavePending }

// Announcement aviso interno publicado por RR. HH. Los fijados se listan primero.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	Author    string    `json:"author"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
