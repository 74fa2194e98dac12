package domain

import "errors"

// Persisted storage keys. KeyLastPath is a navigation convenience and not part
// of the session record.
const (
	KeyToken    = "token"
	KeyUser     = "user"
	KeyBusiness = "business"
	KeyLastPath = "lastPath"
)

var (
	ErrTransport         = errors.New("backend unreachable")
	ErrMalformedResponse = errors.New("malformed backend response")
)
