package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminconsole/admin-console/internal/identity"
)

func TestContextProvider(t *testing.T) {
	var p identity.Provider = identity.ContextProvider{}

	_, err := p.CurrentUser(context.Background())
	require.ErrorIs(t, err, identity.ErrNoSession)

	want := identity.User{ID: 7, Email: "ada@example.com", DisplayName: "Ada"}

	got, err := p.CurrentUser(identity.WithUser(context.Background(), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClient(t *testing.T) {
	_, ok := identity.ClientFromContext(context.Background())
	assert.False(t, ok)

	ctx := identity.WithClient(context.Background(), identity.Client{IP: "10.0.0.1", UserAgent: "curl/8"})

	c, ok := identity.ClientFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", c.IP)
	assert.Equal(t, "curl/8", c.UserAgent)
}
