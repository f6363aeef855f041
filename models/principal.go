package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PrincipalKind discriminates who a token was issued to.
type PrincipalKind string

const (
	PrincipalOrganization PrincipalKind = "organization"
	PrincipalEmployee     PrincipalKind = "employee"
)

func (k PrincipalKind) Valid() bool {
	return k == PrincipalOrganization || k == PrincipalEmployee
}

// Principal is the authenticated caller. For an organization, ID and OrganizationID are equal.
type Principal struct {
	Kind           PrincipalKind      `json:"kind"`
	ID             primitive.ObjectID `json:"id"`
	OrganizationID primitive.ObjectID `json:"organization_id"`
	Email          string             `json:"email"`
	TokenID        string             `json:"-"`
}

func (p *Principal) IsOrganization() bool { return p != nil && p.Kind == PrincipalOrganization }
func (p *Principal) IsEmployee() bool     { return p != nil && p.Kind == PrincipalEmployee }
