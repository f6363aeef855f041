package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultWorkdayRule is used when an organization does not provide its own recurrence.
const DefaultWorkdayRule = "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"

type Organization struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"`
	WorkdayRule string             `json:"workday_rule" bson:"workday_rule,omitempty"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type OrganizationSignupPayload struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	WorkdayRule string `json:"workday_rule" validate:"omitempty,rrule"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type OrganizationDashboard struct {
	Organization    Organization `json:"organization"`
	EmployeeCount   int64        `json:"employee_count"`
	AttendanceToday int64        `json:"attendance_today"`
	QueryCount      int64        `json:"query_count"`
}
