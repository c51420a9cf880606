package settings

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Reconciler loads persisted records and merges them over the schema defaults.
type Reconciler struct {
	store    Store
	registry *Registry
}

// NewReconciler creates a reconciler.
func NewReconciler(store Store, registry *Registry) *Reconciler {
	return &Reconciler{store: store, registry: registry}
}

// Load returns the working set and the snapshot of one domain.
func (r *Reconciler) Load(ctx context.Context, domain string) (working, snapshot Values, err error) {
	w, s, err := r.LoadState(ctx, domain)
	if w == nil {
		return nil, nil, err
	}

	return w[domain], s[domain], err
}

// LoadState loads several domains with a single store call.
//
// Records with keys the schema does not declare are ignored. A record that
// can not be decoded keeps its raw value as a string. When the store fails
// the defaults are returned together with an error wrapping ErrStoreUnavailable.
// Working set and snapshot never share memory.
func (r *Reconciler) LoadState(ctx context.Context, domains ...string) (working, snapshot State, err error) {
	state, err := r.registry.Defaults(domains...)
	if err != nil {
		return nil, nil, err
	}

	records, err := r.store.List(ctx, domains...)
	if err != nil {
		log.Error().Err(err).Strs("domains", domains).Msg("failed to load settings, using defaults")

		return state.Clone(), state, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	for _, rec := range records {
		schema, ok := r.registry.schemas[rec.Category]
		if !ok || state[rec.Category] == nil {
			continue
		}

		field, ok := schema.Field(rec.Key)
		if !ok {
			log.Debug().Str("domain", rec.Category).Str("key", rec.Key).Msg("ignoring unknown settings key")

			continue
		}

		val, decodeErr := Decode(field.Kind, rec.Value)
		if decodeErr != nil {
			log.Warn().Err(decodeErr).
				Str("domain", rec.Category).
				Str("key", rec.Key).
				Str("value", rec.Value).
				Msg("could not decode settings value, using raw value")

			val = String(rec.Value)
		}

		state[rec.Category][rec.Key] = val
	}

	return state.Clone(), state, nil
}
