package settings

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/adminconsole/admin-console/internal/db/models"
)

// Recorder receives an audit entry after a successful save.
// Dispatch must not block on persisting the entry.
type Recorder interface {
	Dispatch(ctx context.Context, action models.ActionType, title, description string, details any)
}

// Synchronizer persists working sets and advances snapshots.
type Synchronizer struct {
	store    Store
	registry *Registry
	recorder Recorder
	limit    int
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithRecorder sets the audit recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Synchronizer) { s.recorder = r }
}

// WithConcurrency bounds the number of store calls in flight, n <= 0 means unbounded.
func WithConcurrency(n int) Option {
	return func(s *Synchronizer) { s.limit = n }
}

// NewSynchronizer creates a synchronizer.
func NewSynchronizer(store Store, registry *Registry, opts ...Option) *Synchronizer {
	s := &Synchronizer{store: store, registry: registry}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Save persists the working set of one domain. See SaveState.
func (s *Synchronizer) Save(ctx context.Context, domain string, working, snapshot Values, strategy Strategy) (Values, error) {
	next, err := s.SaveState(ctx, State{domain: working}, State{domain: snapshot}, strategy)
	if err != nil {
		return snapshot, err
	}

	return next[domain], nil
}

// SaveState persists working and returns the new snapshot.
//
// When working equals snapshot no store call is made, for either strategy.
// Otherwise the stored records of the working domains are listed and the plan
// computed by BuildPlan is executed in two phases: every delete concurrently,
// then, once all deletes succeeded, every create and update concurrently. A
// failed delete skips the write phase. If any call fails the error
// wraps ErrSaveFailed and snapshot is returned unchanged; calls that already
// succeeded are not rolled back. On success the returned snapshot is a copy of
// working and an audit entry is dispatched without waiting for it.
func (s *Synchronizer) SaveState(ctx context.Context, working, snapshot State, strategy Strategy) (State, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return snapshot, err
	}

	if working.Equal(snapshot) {
		return snapshot.Clone(), nil
	}

	domains := working.Domains()
	for _, d := range domains {
		if _, err := s.registry.Lookup(d); err != nil {
			return snapshot, err
		}
	}

	err := s.persist(ctx, domains, working, snapshot, strategy)
	saves.WithLabelValues(string(strategy), outcome(err)).Inc()

	if err != nil {
		log.Error().Err(err).Strs("domains", domains).Str("strategy", string(strategy)).Msg("failed to save settings")

		return snapshot, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	log.Info().Strs("domains", domains).Str("strategy", string(strategy)).Msg("settings saved")

	s.audit(ctx, domains, working)

	return working.Clone(), nil
}

func (s *Synchronizer) persist(ctx context.Context, domains []string, working, snapshot State, strategy Strategy) error {
	existing, err := s.store.List(ctx, domains...)
	if err != nil {
		storeOperations.WithLabelValues("list", outcome(err)).Inc()

		return fmt.Errorf("list existing settings: %w", err)
	}

	plan := BuildPlan(s.registry, working, snapshot, existing, strategy)

	log.Debug().
		Strs("domains", domains).
		Int("creates", plan.Count(OpCreate)).
		Int("updates", plan.Count(OpUpdate)).
		Int("deletes", plan.Count(OpDelete)).
		Msg("settings save plan")

	// (category, key) is unique in the store, recreated keys must be gone first
	if err = s.execute(ctx, plan.Deletes); err != nil {
		return err
	}

	return s.execute(ctx, plan.Writes)
}

func (s *Synchronizer) execute(ctx context.Context, ops []Op) error {
	var g errgroup.Group

	if s.limit > 0 {
		g.SetLimit(s.limit)
	}

	for _, op := range ops {
		g.Go(func() error {
			err := s.apply(ctx, op)
			storeOperations.WithLabelValues(string(op.Kind), outcome(err)).Inc()

			return err
		})
	}

	return g.Wait() //nolint:wrapcheck
}

func (s *Synchronizer) apply(ctx context.Context, op Op) error {
	var err error

	switch op.Kind {
	case OpCreate:
		_, err = s.store.Create(ctx, op.Record)
	case OpUpdate:
		_, err = s.store.Update(ctx, op.ID, op.Record.Value)
	case OpDelete:
		err = s.store.Delete(ctx, op.ID)
	}

	if err != nil {
		return fmt.Errorf("%s %s.%s: %w", op.Kind, op.Record.Category, op.Record.Key, err)
	}

	return nil
}

func (s *Synchronizer) audit(ctx context.Context, domains []string, working State) {
	if s.recorder == nil {
		return
	}

	action := models.ActionSettingChanged
	title := "Settings updated"
	description := "Updated settings"

	if g, ok := s.registry.GroupOf(domains[0]); ok {
		action, title, description = g.Action, g.Title, g.Description
	}

	var updated any = working.Plain()
	if len(domains) == 1 {
		updated = working[domains[0]].Plain()
	}

	s.recorder.Dispatch(ctx, action, title, description, map[string]any{
		"domains":         domains,
		"updatedSettings": updated,
	})
}
