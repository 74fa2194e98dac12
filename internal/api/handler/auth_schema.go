package handler

import "github.com/staybook/portal/internal/core/domain"

// --- Request types ---

type registerRequest struct {
	Username    string `json:"username"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required"`
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	PostalCode  string `json:"postalCode"`
}

func (r registerRequest) toRegistration() domain.Registration {
	return domain.Registration{
		Username:    r.Username,
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		City:        r.City,
		Country:     r.Country,
		PostalCode:  r.PostalCode,
	}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// profilePatch is a partial identity edit; nil fields are left unchanged.
type profilePatch struct {
	Username    *string `json:"username"    validate:"omitempty,min=1"`
	Email       *string `json:"email"       validate:"omitempty,email"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	PostalCode  *string `json:"postalCode"`
}

func (p profilePatch) apply(id *domain.Identity) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&id.Username, p.Username)
	set(&id.Email, p.Email)
	set(&id.FirstName, p.FirstName)
	set(&id.LastName, p.LastName)
	set(&id.PhoneNumber, p.PhoneNumber)
	set(&id.Address, p.Address)
	set(&id.City, p.City)
	set(&id.Country, p.Country)
	set(&id.PostalCode, p.PostalCode)
}

type businessRequest struct {
	ID           int64    `json:"id"           validate:"required,gt=0"`
	Name         string   `json:"name"         validate:"required"`
	BusinessName string   `json:"businessName"`
	Type         string   `json:"type"         validate:"required"`
	Status       string   `json:"status"`
	Modules      []string `json:"modules"`
}

func (r businessRequest) toBusiness() *domain.Business {
	return &domain.Business{
		ID:           r.ID,
		Name:         r.Name,
		BusinessName: r.BusinessName,
		Type:         r.Type,
		Status:       r.Status,
		Modules:      r.Modules,
	}
}

// --- Response types ---

type sessionResponse struct {
	Ready         bool             `json:"ready"`
	Authenticated bool             `json:"authenticated"`
	Identity      *domain.Identity `json:"identity,omitempty"`
	Business      *domain.Business `json:"business,omitempty"`
	NavbarVisible bool             `json:"navbarVisible"`
}

type pageResponse struct {
	Page     string           `json:"page"`
	Path     string           `json:"path"`
	Navbar   bool             `json:"navbar"`
	Identity *domain.Identity `json:"identity,omitempty"`
	Business *domain.Business `json:"business,omitempty"`
}

func success[T any](message string, data *T) domain.Envelope[T] {
	return domain.Envelope[T]{ReturnCode: domain.CodeOK, ReturnMessage: message, ReturnData: data}
}
