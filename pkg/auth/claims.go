package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID uuid.UUID
	Email   string
	Name    string
	// JTI doubles as the session id; a random one is minted when empty.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to back-office clients.
type AccessTokenClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	Name    string    `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Principal returns the authenticated admin described by the claims.
func (c *AccessTokenClaims) Principal() Principal {
	return Principal{AdminID: c.AdminID, Email: c.Email, Name: c.Name, SessionID: c.ID}
}
