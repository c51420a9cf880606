package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/identity"
)

const (
	// UnknownIP is stored when the client address is not known.
	UnknownIP = "0.0.0.0"
	// UnknownUserAgent is stored when the client user agent is not known.
	UnknownUserAgent = "unknown"
)

// Store persists activity entries.
type Store interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
}

// Recorder writes activity entries.
type Recorder struct {
	store    Store
	identity identity.Provider
	wg       sync.WaitGroup
}

// NewRecorder creates a recorder. A nil provider reads the identity from the context.
func NewRecorder(store Store, provider identity.Provider) *Recorder {
	if provider == nil {
		provider = identity.ContextProvider{}
	}

	return &Recorder{store: store, identity: provider}
}

// Dispatch records the entry in the background, detached from ctx cancellation.
func (r *Recorder) Dispatch(ctx context.Context, action models.ActionType, title, description string, details any) {
	if r == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		r.Record(ctx, action, title, description, details)
	}()
}

// Wait blocks until all dispatched entries are handled.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Record writes one entry. Failures are logged and never returned.
func (r *Recorder) Record(ctx context.Context, action models.ActionType, title, description string, details any) {
	defer func() {
		if p := recover(); p != nil {
			records.WithLabelValues(resultDropped).Inc()
			log.Error().Interface("panic", p).Str("action", string(action)).Msg("activity recording panicked")
		}
	}()

	entry := r.newEntry(ctx, action, title, description, details)

	u, err := r.identity.CurrentUser(ctx)
	if err != nil {
		log.Debug().Err(err).Str("action", string(action)).Msg("no identity, recording as system")
		r.persist(ctx, entry, resultSystem)

		return
	}

	attributed := *entry
	attributed.UserID = &u.ID
	attributed.UserEmail = &u.Email
	attributed.UserName = &u.DisplayName

	if err = r.store.Create(ctx, &attributed); err == nil {
		records.WithLabelValues(resultUser).Inc()
		return
	}

	log.Warn().Err(err).Str("action", string(action)).Msg("could not record user activity, recording as system")

	// fresh id, the first attempt may have been stored partially
	entry.EventID = uuid.NewString()
	r.persist(ctx, entry, resultFallback)
}

func (r *Recorder) persist(ctx context.Context, entry *models.ActivityLog, result string) {
	if err := r.store.Create(ctx, entry); err != nil {
		records.WithLabelValues(resultDropped).Inc()
		log.Error().Err(err).Str("action", string(entry.ActionType)).Str("title", entry.Title).
			Msg("failed to record activity")

		return
	}

	records.WithLabelValues(result).Inc()
}

func (r *Recorder) newEntry(ctx context.Context, action models.ActionType, title, description string, details any) *models.ActivityLog {
	entry := &models.ActivityLog{
		EventID:     uuid.NewString(),
		ActionType:  action,
		Title:       title,
		Description: description,
		IPAddress:   UnknownIP,
		UserAgent:   UnknownUserAgent,
	}

	if c, ok := identity.ClientFromContext(ctx); ok {
		if c.IP != "" {
			entry.IPAddress = c.IP
		}

		if c.UserAgent != "" {
			entry.UserAgent = c.UserAgent
		}
	}

	if details != nil {
		raw, err := encodeDetails(details)
		if err != nil {
			log.Warn().Err(err).Str("action", string(action)).Msg("dropping undecodable activity details")
		} else {
			entry.Details = raw
		}
	}

	return entry
}

func encodeDetails(details any) (datatypes.JSON, error) {
	switch d := details.(type) {
	case datatypes.JSON:
		return d, nil
	case json.RawMessage:
		return datatypes.JSON(d), nil
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode details: %w", err)
	}

	return raw, nil
}
