package models

type EmployeeMonthSummary struct {
	Name    string `json:"name"`
	Present int    `json:"present_count"`
	Absent  int    `json:"absent_count"`
	Leave   int    `json:"leave_count"`
	HalfDay int    `json:"half_day_count"`
}

type MonthlyReport struct {
	Year        int                             `json:"year"`
	Month       int                             `json:"month"`
	StartDate   string                          `json:"start_date"`
	EndDate     string                          `json:"end_date"`
	DaysInMonth int                             `json:"days_in_month"`
	WorkingDays int                             `json:"working_days"`
	Employees   map[string]EmployeeMonthSummary `json:"employees"`
}

// AttendanceTable maps employee name to one value per day of the requested range.
type AttendanceTable map[string][]string
