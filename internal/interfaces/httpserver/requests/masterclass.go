package requests

// AccessGrantRequest carries the landing page URL parameters.
type AccessGrantRequest struct {
	Email  string `json:"email" form:"email"`
	Access string `json:"access" form:"access"`
	Source string `json:"source" form:"source"`
}
