package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/config"
	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/identity"
)

type fakeVerifier map[string]Claims

func (f fakeVerifier) Verify(_ context.Context, raw string) (Claims, error) {
	c, ok := f[raw]
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	return c, nil
}

type dispatched struct {
	action models.ActionType
	user   identity.User
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []dispatched
}

func (r *fakeRecorder) Dispatch(ctx context.Context, action models.ActionType, _, _ string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, _ := identity.UserFromContext(ctx)
	r.entries = append(r.entries, dispatched{action: action, user: u})
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	return db
}

func testVerifier() fakeVerifier {
	return fakeVerifier{
		"admin-token": {Subject: "sub-admin", Email: "Ada@Example.com", Name: "Ada"},
		"user-token":  {Subject: "sub-user", Email: "grace@example.com", Name: "Grace"},
	}
}

func TestServiceAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	rec := &fakeRecorder{}
	svc := NewService(db, testVerifier(), []string{" ada@example.com "}, rec)

	u, err := svc.Authenticate(context.Background(), "admin-token")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.True(t, u.Active)

	u2, err := svc.Authenticate(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u2.Role)

	// second sign in does not register again
	_, err = svc.Authenticate(context.Background(), "user-token")
	require.NoError(t, err)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, models.ActionUserRegistered, rec.entries[0].action)
	assert.Equal(t, u.ID, rec.entries[0].user.ID)
	assert.Equal(t, "grace@example.com", rec.entries[1].user.Email)

	testCases := []struct {
		name  string
		token string
		err   error
	}{
		{name: "empty", token: "", err: ErrNoToken},
		{name: "unknown", token: "forged", err: ErrInvalidToken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.token)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestServiceDisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.User{Email: "grace@example.com", Role: models.RoleUser}).Error)
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "grace@example.com").Update("active", false).Error)

	svc := NewService(db, testVerifier(), nil, nil)

	_, err := svc.Authenticate(context.Background(), "user-token")
	require.ErrorIs(t, err, ErrUserAccountDisabled)
}

func TestMiddleware(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testVerifier(), []string{"ada@example.com"}, nil)

	app := fiber.New()
	api := app.Group("/api", ClientInfo(), Authenticate(svc))
	api.Get("/me", func(c *fiber.Ctx) error {
		u, ok := identity.UserFromContext(c.UserContext())
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}

		return c.SendString(u.Email)
	})
	api.Get("/admin", RequireAdmin(svc), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	testCases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "no header", path: "/api/me", status: fiber.StatusUnauthorized},
		{name: "basic auth", path: "/api/me", header: "Basic Zm9vOmJhcg==", status: fiber.StatusUnauthorized},
		{name: "bad token", path: "/api/me", header: "Bearer forged", status: fiber.StatusUnauthorized},
		{name: "user", path: "/api/me", header: "Bearer user-token", status: fiber.StatusOK},
		{name: "lowercase scheme", path: "/api/me", header: "bearer user-token", status: fiber.StatusOK},
		{name: "user on admin route", path: "/api/admin", header: "Bearer user-token", status: fiber.StatusForbidden},
		{name: "admin", path: "/api/admin", header: "Bearer admin-token", status: fiber.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestMiddlewareDisabled(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	assert.False(t, svc.Enabled())

	app := fiber.New()
	app.Get("/admin", Authenticate(svc), RequireAdmin(svc), func(c *fiber.Ctx) error {
		if CurrentUser(c) != nil {
			return errors.New("unexpected user")
		}

		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestClientInfo(t *testing.T) {
	app := fiber.New()
	app.Get("/", ClientInfo(), func(c *fiber.Ctx) error {
		client, ok := identity.ClientFromContext(c.UserContext())
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}

		return c.SendString(client.UserAgent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderUserAgent, "console-test/1.0")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func unsignedToken(payload string) string {
	enc := base64.RawURLEncoding

	return enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + "." + enc.EncodeToString([]byte("signature"))
}

func TestOIDCVerifier(t *testing.T) {
	const issuer = "https://issuer.example.com"

	v := NewOIDCVerifierFrom(oidc.NewVerifier(issuer, &oidc.StaticKeySet{}, &oidc.Config{
		ClientID:                   "console",
		SkipExpiryCheck:            true,
		InsecureSkipSignatureCheck: true,
	}))

	testCases := []struct {
		name    string
		payload string
		want    Claims
		err     error
	}{
		{
			name:    "valid",
			payload: `{"iss":"` + issuer + `","aud":"console","sub":"abc","email":"ada@example.com","name":"Ada"}`,
			want:    Claims{Subject: "abc", Email: "ada@example.com", Name: "Ada"},
		},
		{
			name:    "wrong audience",
			payload: `{"iss":"` + issuer + `","aud":"other","sub":"abc","email":"ada@example.com"}`,
			err:     ErrInvalidToken,
		},
		{
			name:    "no email",
			payload: `{"iss":"` + issuer + `","aud":"console","sub":"abc"}`,
			err:     ErrMissingEmail,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.Verify(context.Background(), unsignedToken(tc.payload))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := v.Verify(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewOIDCVerifierDisabled(t *testing.T) {
	_, err := NewOIDCVerifier(context.Background(), config.OIDC{})
	require.ErrorIs(t, err, ErrOIDCDisabled)
}
