package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Employee struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Code           string             `json:"code" bson:"code"`
	RFID           *string            `json:"rfid,omitempty" bson:"rfid,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"-" bson:"password"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	IsActive       bool               `json:"is_active" bson:"is_active"`
	DateJoined     time.Time          `json:"date_joined" bson:"date_joined"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// Tag returns the assigned RFID tag or "" when the employee has no card.
func (e *Employee) Tag() string {
	if e.RFID == nil {
		return ""
	}
	return *e.RFID
}

type EmployeeCreatePayload struct {
	Code     string `json:"unique_id" validate:"required,max=12"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	RFID     string `json:"rfid" validate:"omitempty,max=50"`
}

type EmployeePage struct {
	Employees  []Employee `json:"employees"`
	Total      int64      `json:"total"`
	Page       int64      `json:"page"`
	PageSize   int64      `json:"page_size"`
	TotalPages int64      `json:"total_pages"`
}

type OrganizationSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EmployeeDashboard is served to both principal kinds; Employee and Today are only set for employees.
type EmployeeDashboard struct {
	Message      string              `json:"message"`
	Kind         PrincipalKind       `json:"kind"`
	Employee     *Employee           `json:"employee,omitempty"`
	Organization OrganizationSummary `json:"organization"`
	Today        *Attendance         `json:"today,omitempty"`
	TotalQueries int64               `json:"total_queries"`
}
