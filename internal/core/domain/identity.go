package domain

// Identity is the authenticated user's profile record, persisted under KeyUser.
type Identity struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	PostalCode  string `json:"postalCode"`
	BusinessID  *int64 `json:"businessId,omitempty"`
	Role        Role   `json:"role"`
}

// Clone returns a deep copy so callers never share the store's record.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.BusinessID != nil {
		id := *i.BusinessID
		c.BusinessID = &id
	}
	return &c
}

// Business is the active business a signed-in user owns or operates,
// persisted under KeyBusiness.
type Business struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	BusinessName string   `json:"businessName"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	Modules      []string `json:"modules,omitempty"`
}

// Clone returns a deep copy of the business, or nil for a nil receiver.
func (b *Business) Clone() *Business {
	if b == nil {
		return nil
	}
	c := *b
	if b.Modules != nil {
		c.Modules = append([]string(nil), b.Modules...)
	}
	return &c
}

// NormalizeRole rewrites the identity's role onto the closed Role set.
func (i *Identity) NormalizeRole() {
	i.Role = NormalizeRole(string(i.Role))
}
