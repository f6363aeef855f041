package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-day key of an attendance record.
const DateLayout = "2006-01-02"

// TimeLayout renders check-in/check-out times in reports and responses.
const TimeLayout = "15:04:05"

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "P"
	StatusAbsent  AttendanceStatus = "A"
	StatusLeave   AttendanceStatus = "L"
	StatusHalfDay AttendanceStatus = "H"
)

var statusLabels = map[AttendanceStatus]string{
	StatusPresent: "Present",
	StatusAbsent:  "Absent",
	StatusLeave:   "Leave",
	StatusHalfDay: "Half Day",
}

func (s AttendanceStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the human-readable status name.
func (s AttendanceStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus accepts a status code (P, A, L, H) or its full name, case-insensitively.
func ParseStatus(s string) (AttendanceStatus, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch strings.ReplaceAll(strings.ReplaceAll(v, " ", ""), "_", "") {
	case "P", "PRESENT":
		return StatusPresent, true
	case "A", "ABSENT":
		return StatusAbsent, true
	case "L", "LEAVE":
		return StatusLeave, true
	case "H", "HALFDAY":
		return StatusHalfDay, true
	}
	return "", false
}

type Attendance struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID       primitive.ObjectID `json:"employee_id" bson:"employee_id"`
	OrganizationID   primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	Date             string             `json:"date" bson:"date"`
	CheckIn          *time.Time         `json:"check_in" bson:"check_in"`
	CheckOut         *time.Time         `json:"check_out" bson:"check_out"`
	Status           AttendanceStatus   `json:"status" bson:"status"`
	EmployeeCode     string             `json:"employee_code" bson:"employee_code"`
	OrganizationName string             `json:"organization_name" bson:"organization_name"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// MarkResult is the outcome of one ledger transition.
type MarkResult struct {
	Record  *Attendance `json:"record"`
	Created bool        `json:"created"`
}
