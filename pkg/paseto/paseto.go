package paseto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/o1egl/paseto"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Absensi-RFID/models"
)

// Maker issues and validates PASETO v2 local tokens carrying a models.Principal.
type Maker struct {
	paseto       *paseto.V2
	symmetricKey []byte
	ttl          time.Duration
}

func NewPasetoMaker(symmetricKey []byte, ttl time.Duration) (*Maker, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("PASETO key must be exactly 32 bytes, got %d bytes", len(symmetricKey))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &Maker{
		paseto:       paseto.NewV2(),
		symmetricKey: symmetricKey,
		ttl:          ttl,
	}, nil
}

// GenerateToken returns the encrypted token and its expiry.
func (m *Maker) GenerateToken(p models.Principal) (string, time.Time, error) {
	if !p.Kind.Valid() {
		return "", time.Time{}, fmt.Errorf("unknown principal kind %q", p.Kind)
	}

	now := time.Now()
	exp := now.Add(m.ttl)

	token := paseto.JSONToken{
		Jti:        uuid.New().String(),
		Subject:    p.ID.Hex(),
		IssuedAt:   now,
		Expiration: exp,
		NotBefore:  now,
	}

	// custom claims are stored as strings
	token.Set("kind", string(p.Kind))
	token.Set("organization_id", p.OrganizationID.Hex())
	token.Set("email", p.Email)

	s, err := m.paseto.Encrypt(m.symmetricKey, token, "")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to encrypt paseto token: %w", err)
	}
	return s, exp, nil
}

// ValidateToken decrypts the token and rebuilds the principal. It also returns the expiry
// so callers can size a blacklist entry.
func (m *Maker) ValidateToken(tokenString string) (*models.Principal, time.Time, error) {
	var token paseto.JSONToken
	var footer string

	if err := m.paseto.Decrypt(tokenString, m.symmetricKey, &token, &footer); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decrypt paseto token: %w", err)
	}

	if err := token.Validate(); err != nil {
		return nil, time.Time{}, fmt.Errorf("token validation failed: %w", err)
	}

	kind := models.PrincipalKind(token.Get("kind"))
	if !kind.Valid() {
		return nil, time.Time{}, fmt.Errorf("invalid principal kind %q", kind)
	}

	id, err := primitive.ObjectIDFromHex(token.Subject)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("invalid subject format: %v", err)
	}
	orgID, err := primitive.ObjectIDFromHex(token.Get("organization_id"))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("invalid organization_id format: %v", err)
	}

	return &models.Principal{
		Kind:           kind,
		ID:             id,
		OrganizationID: orgID,
		Email:          token.Get("email"),
		TokenID:        token.Jti,
	}, token.Expiration, nil
}
