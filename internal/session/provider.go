// Package session manages the bearer-token session issued by the
// external auth provider. The rest of the application only ever sees
// the Provider interface: a current token and a change notification.
package session

import "context"

// Provider exposes the auth session to the API client and commands.
type Provider interface {
	// Token returns the current bearer token, or an empty string when
	// signed out. Token must return within a bounded time; callers
	// proceed unauthenticated rather than hang on a slow refresh.
	Token(ctx context.Context) (string, error)

	// Subscribe registers fn to run after every session change
	// (sign-in, sign-out, refresh). The returned func unregisters it.
	Subscribe(fn func()) (unsubscribe func())

	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
}

// Static is a Provider wrapping a fixed token, for personal-access
// tokens and tests. Sign-in style operations are not supported.
type Static struct {
	token string
}

// NewStatic creates a Static provider around token.
func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) Token(_ context.Context) (string, error) { return s.token, nil }

func (s *Static) Subscribe(_ func()) func() { return func() {} }

func (s *Static) SignIn(_ context.Context, _, _ string) error {
	return errNotSupported
}

func (s *Static) SignUp(_ context.Context, _, _ string) error {
	return errNotSupported
}

func (s *Static) SignOut(_ context.Context) error { return errNotSupported }

func (s *Static) ResetPassword(_ context.Context, _ string) error {
	return errNotSupported
}
