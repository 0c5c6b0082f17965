package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role distinguishes vendor tokens from other marketplace principals.
type Role string

const (
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleVendor, RoleCustomer:
		return true
	default:
		return false
	}
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	SubjectID uuid.UUID
	Role      Role
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. For vendor
// tokens the subject id is the vendor id that scopes inventory writes.
type AccessTokenClaims struct {
	SubjectID uuid.UUID `json:"sub_id"`
	Role      Role      `json:"role"`
	jwt.RegisteredClaims
}

// Validate is run by the jwt parser after the registered claims pass.
func (c AccessTokenClaims) Validate() error {
	if c.SubjectID == uuid.Nil {
		return errors.New("subject id is required")
	}
	if !c.Role.IsValid() {
		return fmt.Errorf("invalid role %q", c.Role)
	}
	if c.Subject != "" && c.Subject != c.SubjectID.String() {
		return errors.New("subject does not match subject id")
	}
	return nil
}
