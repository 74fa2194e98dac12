package domain

// Return codes carried by the backend envelope for expected domain outcomes.
const (
	CodeOK           = 200
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
)

// Envelope is the {returnCode, returnMessage, returnData} wrapper used by every
// backend call.
type Envelope[T any] struct {
	ReturnCode    int    `json:"returnCode"`
	ReturnMessage string `json:"returnMessage"`
	ReturnData    *T     `json:"returnData,omitempty"`
}

// OK reports a successful domain outcome.
func (e Envelope[T]) OK() bool {
	return e.ReturnCode == CodeOK
}

// Empty is the returnData type of operations that carry none.
type Empty struct{}

// LoginData is the returnData of a successful login.
type LoginData struct {
	Token string    `json:"token,omitempty"`
	User  *Identity `json:"user"`
}

// Registration carries the profile fields and password of a sign-up.
type Registration struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
}
