package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxQueryLength bounds the query text, counted in characters.
const MaxQueryLength = 5000

type QueryVisibility string

const (
	QueryPublic  QueryVisibility = "public"
	QueryPrivate QueryVisibility = "private"
)

type QueryStatus string

const (
	QueryPending    QueryStatus = "pending"
	QueryInProgress QueryStatus = "in_progress"
	QueryResolved   QueryStatus = "resolved"
)

// Query is a support question an organization submits. Public ones are listed to everyone.
type Query struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	Subject        string             `json:"subject" bson:"subject"`
	Content        string             `json:"query" bson:"query"`
	Visibility     QueryVisibility    `json:"visibility" bson:"visibility"`
	Status         QueryStatus        `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type QuerySubmitPayload struct {
	Subject    string `json:"subject" validate:"omitempty,max=200"`
	Content    string `json:"query" validate:"required,max=5000"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public private"`
}

type QueryPage struct {
	Queries    []Query `json:"queries"`
	Total      int64   `json:"total"`
	Page       int64   `json:"page"`
	PageSize   int64   `json:"page_size"`
	TotalPages int64   `json:"total_pages"`
}
