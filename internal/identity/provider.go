// Package identity implements the identity provider boundary: credential
// verification, account creation, and the password reset code lifecycle.
// Consumers depend on the Provider interface only.
package identity

import "context"

// Session represents an authenticated user. It is issued by the provider
// and observed (never mutated) by the rest of the application.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// SessionListener is notified whenever a sign-in or account creation
// succeeds. The application shell uses this to route between the
// authenticated and unauthenticated areas.
type SessionListener func(*Session)

// Provider is the narrow contract the auth flow depends on. Errors are
// *errors.AppError values carrying the fixed provider code set.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	CreateAccount(ctx context.Context, email, password string) (*Session, error)
	SendResetEmail(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, actionCode, newPassword string) error
}
