package models

import "time"

// AttendanceEvent is queued after a successful scan and mailed in the daily batch.
type AttendanceEvent struct {
	EmployeeName      string    `json:"employee_name"`
	EmployeeID        string    `json:"employee_id"`
	Timestamp         time.Time `json:"timestamp"`
	OrganizationEmail string    `json:"organization_email"`
}
