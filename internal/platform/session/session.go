package session

import (
	"context"
	"strings"
)

// Session carries the bearer credential for commerce API calls. It is built
// at the HTTP edge from the incoming request and threaded through context;
// there is no process-global token. Logout and 401 responses invalidate the
// session by simply not propagating it further.
type Session struct {
	Token string
}

// Valid reports whether the session carries a usable credential.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != ""
}

type contextKey struct{}

// WithSession stores the session on the context for downstream collaborator
// calls.
func WithSession(ctx context.Context, s Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext retrieves the session from context. ok is false when no session
// was attached, which callers must treat as "route to login", never as an
// anonymous call.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok || !s.Valid() {
		return Session{}, false
	}
	return s, true
}

// FromBearer parses an Authorization header value of the form "Bearer token".
func FromBearer(header string) (Session, bool) {
	const prefix = "Bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return Session{}, false
	}
	s := Session{Token: strings.TrimSpace(header[len(prefix):])}
	if !s.Valid() {
		return Session{}, false
	}
	return s, true
}
