package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
	// Method names the scheme for error reporting.
	Method() string
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {}

// Method implements the Authenticator interface for NoAuth.
func (a *NoAuth) Method() string { return "none" }

// BasicAuth implements HTTP basic authentication, the scheme DHuS mirrors accept.
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}

// Method implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Method() string { return "basic" }

// BearerAuth implements Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// Method implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Method() string { return "bearer" }

// NewCredentials picks basic auth when a username is set and no auth otherwise.
func NewCredentials(username, password string) Authenticator {
	if username == "" {
		return &NoAuth{}
	}
	return &BasicAuth{Username: username, Password: password}
}
