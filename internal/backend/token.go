package backend

import "context"

// TokenProvider supplies the bearer token attached to every backend request.
// Passed in explicitly so the client stays testable without ambient storage.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed credential, typically sourced from the environment.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrMissingToken
	}
	return string(t), nil
}
