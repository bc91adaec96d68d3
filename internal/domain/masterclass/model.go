// Package masterclass handles replay registration and the 48 hour access grant.
package masterclass

import "time"

// Access sources reported to the access webhook.
const (
	AccessSourceForm = "form"
	AccessSourceURL  = "url_parameter"
)

// PracticeAreas are the selectable practice areas on the registration form.
var PracticeAreas = []string{
	"personal-injury",
	"family-law",
	"criminal-defense",
	"estate-planning",
	"business-law",
	"real-estate",
	"immigration",
	"other",
}

// Registration is the replay access form.
type Registration struct {
	FullName     string `json:"fullName" validate:"required" jsonschema:"title=Full name,minLength=1"`
	Email        string `json:"email" validate:"required,email,business_email" jsonschema:"title=Work email,format=email"`
	Phone        string `json:"phone" validate:"required,phone" jsonschema:"title=Phone number,pattern=^[0-9\\s\\-+()]+$"`
	FirmName     string `json:"firmName" validate:"required" jsonschema:"title=Law firm name,minLength=1"`
	PracticeArea string `json:"practiceArea" validate:"required,practice_area" jsonschema:"title=Practice area,enum=personal-injury,enum=family-law,enum=criminal-defense,enum=estate-planning,enum=business-law,enum=real-estate,enum=immigration,enum=other"`
	Source       string `json:"source,omitempty" jsonschema:"title=Traffic source"`
}

// Record is a stored registration.
type Record struct {
	ID              string
	FullName        string
	Email           string
	Phone           string
	FirmName        string
	PracticeArea    string
	Source          string
	AccessExpiresAt time.Time
	CreatedAt       time.Time
}

// Grant is replay access for one visitor.
type Grant struct {
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	FirmName  string    `json:"firmName"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Params are the landing page query parameters that can grant access directly.
type Params struct {
	Email  string
	Access bool
	Source string
}

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string
