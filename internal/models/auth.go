package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the access token payload issued by the hosted auth
// backend. The subject is the profile id.
type JWTClaims struct {
	Email string   `json:"email,omitempty"`
	Role  UserRole `json:"app_role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the profile id carried in the subject claim.
func (c *JWTClaims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}

// Principal is the authenticated caller after its profile has been resolved.
type Principal struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}
