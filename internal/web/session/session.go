// Package session keeps the per-session settings working sets and snapshots.
package session

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/google/uuid"

	"github.com/adminconsole/admin-console/internal/config"
	"github.com/adminconsole/admin-console/internal/db/dsn"
	"github.com/adminconsole/admin-console/internal/settings"
)

// CookieName is the session cookie.
const CookieName = "console_session"

// ErrUnknownStorage is returned for an unsupported session storage backend.
var ErrUnknownStorage = errors.New("unknown session storage")

// NewStorage creates the configured storage. Memory storage returns nil,
// which makes the fiber session store fall back to its in-process map.
func NewStorage(cfg *config.Config) (fiber.Storage, error) {
	sc := cfg.Webserver.Session

	switch sc.Storage {
	case "", config.SessionStorageMemory:
		return nil, nil //nolint:nilnil
	case config.SessionStorageMySQL:
		return mysql.New(mysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         sc.Table,
		}), nil
	case config.SessionStoragePostgres:
		return postgres.New(postgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         sc.Table,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorage, sc.Storage)
	}
}

// New creates the session store.
func New(cfg config.Session, storage fiber.Storage) *session.Store {
	return session.New(session.Config{
		Expiration:     cfg.ExpiryTime,
		Storage:        storage,
		KeyLookup:      "cookie:" + CookieName,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Draft is the working set and snapshot of one settings group held by a session.
type Draft struct {
	Working  settings.State
	Snapshot settings.State
}

// HasChanges reports whether the working set differs from the snapshot.
func (d Draft) HasChanges() bool {
	return !d.Working.Equal(d.Snapshot)
}

func key(group, part string) string {
	return "settings." + group + "." + part
}

// LoadDraft returns the draft of group. ok is false when the session holds none.
func LoadDraft(sess *session.Session, group string) (d Draft, ok bool, err error) {
	working, okW := sess.Get(key(group, "working")).([]byte)
	snapshot, okS := sess.Get(key(group, "snapshot")).([]byte)

	if !okW || !okS {
		return Draft{}, false, nil
	}

	if d.Working, err = settings.UnmarshalState(working); err != nil {
		return Draft{}, false, fmt.Errorf("decode working set: %w", err)
	}

	if d.Snapshot, err = settings.UnmarshalState(snapshot); err != nil {
		return Draft{}, false, fmt.Errorf("decode snapshot: %w", err)
	}

	return d, true, nil
}

// StoreDraft puts the draft of group into the session. The caller saves the session.
func StoreDraft(sess *session.Session, group string, d Draft) error {
	working, err := settings.MarshalState(d.Working)
	if err != nil {
		return fmt.Errorf("encode working set: %w", err)
	}

	snapshot, err := settings.MarshalState(d.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	sess.Set(key(group, "working"), working)
	sess.Set(key(group, "snapshot"), snapshot)

	return nil
}
