package models

type ScanRequest struct {
	CardUID string `json:"card_uid"`
}

type ScanData struct {
	EmployeeName string `json:"employee_name"`
	EmployeeID   string `json:"employee_id"`
	Timestamp    string `json:"timestamp"`
	Action       string `json:"action" example:"check_in"`
}

type ScanResponse struct {
	Status  string    `json:"status" example:"success"`
	Message string    `json:"message" example:"Welcome Asha Rao"`
	Data    *ScanData `json:"data,omitempty"`
}

type LoginSuccessResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"access" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
	Kind    string `json:"kind" example:"organization"`
}

type MarkAttendanceResponse struct {
	Message string      `json:"message" example:"Attendance marked"`
	Created bool        `json:"created"`
	Record  *Attendance `json:"record"`
}

type ServerTimeResponse struct {
	Datetime  string `json:"datetime" example:"2024-01-02 09:15:00"`
	Timestamp int64  `json:"timestamp"`
	Timezone  string `json:"timezone" example:"Asia/Kolkata"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Details string `json:"details,omitempty" example:"validation failed"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Msg   string `json:"message"`
}

type UnauthorizedErrorResponse struct {
	Error string `json:"error" example:"Invalid or expired token"`
}

type ForbiddenErrorResponse struct {
	Error string `json:"error" example:"Organization access required"`
}

type NotFoundErrorResponse struct {
	Error string `json:"error" example:"employee not found"`
}
