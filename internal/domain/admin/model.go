// Package admin authenticates the site operator.
package admin

import "time"

// Role carried by admin tokens.
const Role = "admin"

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is an issued admin token.
type Session struct {
	Subject   string    `json:"subject"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Principal is a verified admin identity.
type Principal struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}
