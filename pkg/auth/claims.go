package auth

import (
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/types"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the typed JWT the identity provider issues to a signed-in
// customer. The service only verifies these tokens; it never mints customer
// identities itself.
type IdentityClaims struct {
	UID         string `json:"uid"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the read-only identity record the domain
// services consume.
func (c *IdentityClaims) Identity() types.Identity {
	if c == nil {
		return types.Identity{}
	}
	return types.Identity{
		UID:         c.UID,
		DisplayName: c.DisplayName,
		Email:       c.Email,
	}
}
