// Package identity carries the acting user and the calling client through a request context.
package identity

import (
	"context"
	"errors"
)

// ErrNoSession is returned when no user is attached to the context.
var ErrNoSession = errors.New("no active session")

// User is the acting user.
type User struct {
	ID          uint64
	Email       string
	DisplayName string
}

// Client describes the calling client.
type Client struct {
	IP        string
	UserAgent string
}

// Provider looks up the acting user.
type Provider interface {
	CurrentUser(ctx context.Context) (User, error)
}

// ContextProvider returns the user stored with WithUser.
type ContextProvider struct{}

// CurrentUser implements Provider.
func (ContextProvider) CurrentUser(ctx context.Context) (User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return User{}, ErrNoSession
	}

	return u, nil
}

type (
	userKey   struct{}
	clientKey struct{}
)

// WithUser attaches u to ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the attached user.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)

	return u, ok
}

// WithClient attaches c to ctx.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFromContext returns the attached client.
func ClientFromContext(ctx context.Context) (Client, bool) {
	c, ok := ctx.Value(clientKey{}).(Client)

	return c, ok
}
