package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Claims is the session token payload issued by the hosted auth service.
// This service only verifies and reads it; it never issues tokens itself.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}
