package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminconsole/admin-console/internal/identity"
	"github.com/adminconsole/admin-console/internal/logger"
	adapter "github.com/adminconsole/admin-console/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP        string `json:"IP"`
	Status    int    `json:"status"`
	URI       string `json:"URI"`
	Method    string `json:"method"`
	Host      string `json:"host"`
	RequestID string `json:"requestID"`
	User      string `json:"user"`
	Error     string `json:"error"`
}

var consoleAccess = logger.Log{
	EnableAccessLogToConsole: true,
	DisableCheckAlive:        true,
	Console:                  logger.Console{Enabled: true},
}

func newApp(cfg adapter.Config) *fiber.App {
	app := fiber.New()
	app.Use(adapter.New(cfg))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("alive")
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		c.SetUserContext(identity.WithUser(c.UserContext(), identity.User{ID: 7, Email: "ada@example.com"}))
		return c.SendString("me")
	})
	app.Get("/fail", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	return app
}

// serve runs one request with stdout captured and returns the access log output.
func serve(t *testing.T, cfg adapter.Config, target string) string {
	t.Helper()

	stdout := os.Stdout

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	done := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	app := newApp(cfg)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Performance"))

	_ = w.Close()
	os.Stdout = stdout

	return <-done
}

func TestAccessLog(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    adapter.Config
		target string
		want   *accessLine
	}{
		{
			name:   "nothing enabled",
			target: "/",
		},
		{
			name:   "plain get",
			cfg:    adapter.Config{Config: consoleAccess},
			target: "/",
			want:   &accessLine{IP: "0.0.0.0", Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:   "query string is kept",
			cfg:    adapter.Config{Config: consoleAccess},
			target: "/?year=2024&month=3",
			want:   &accessLine{IP: "0.0.0.0", Status: 200, URI: "/?year=2024&month=3", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:   "unnormalized path is logged as sent",
			cfg:    adapter.Config{Config: consoleAccess},
			target: "/api//settings",
			want:   &accessLine{IP: "0.0.0.0", Status: 404, URI: "/api//settings", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:   "authenticated user",
			cfg:    adapter.Config{Config: consoleAccess},
			target: "/me",
			want: &accessLine{
				IP: "0.0.0.0", Status: 200, URI: "/me", Method: fiber.MethodGet, Host: "example.com",
				User: "ada@example.com",
			},
		},
		{
			name:   "handler error",
			cfg:    adapter.Config{Config: consoleAccess},
			target: "/fail",
			want: &accessLine{
				IP: "0.0.0.0", Status: fiber.StatusTeapot, URI: "/fail", Method: fiber.MethodGet, Host: "example.com",
				Error: "short and stout",
			},
		},
		{
			name:   "check alive skipped",
			cfg:    adapter.Config{Config: consoleAccess, CheckAliveURI: "/checkalive"},
			target: "/checkalive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := serve(t, tc.cfg, tc.target)

			if tc.want == nil {
				assert.Empty(t, out)
				return
			}

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &got), out)

			assert.NotEmpty(t, got.RequestID)
			got.RequestID = ""
			assert.Equal(t, *tc.want, got)
		})
	}
}

func TestAccessLogFile(t *testing.T) {
	dir := t.TempDir()

	app := newApp(adapter.Config{Config: logger.Log{
		File: logger.LogFile{Enabled: true, Path: dir, Access: logger.Roll{Name: "access.log", MaxSize: 1}},
	}})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "access.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user":"ada@example.com"`)
}

func TestRequestIDHeader(t *testing.T) {
	app := fiber.New()
	app.Use(adapter.New(adapter.Config{}))
	app.Get("/", func(c *fiber.Ctx) error {
		id, _ := c.Locals(adapter.LocalsRequestID).(string)

		return c.SendString(id)
	})

	testCases := []struct {
		name     string
		incoming string
	}{
		{name: "generated when missing"},
		{name: "echoed when sent", incoming: "req-42"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(fiber.HeaderXRequestID, tc.incoming)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			got := resp.Header.Get(fiber.HeaderXRequestID)
			assert.NotEmpty(t, got)

			if tc.incoming != "" {
				assert.Equal(t, tc.incoming, got)
			}

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, got, string(body))
		})
	}
}
