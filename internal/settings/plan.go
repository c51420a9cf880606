package settings

import (
	"fmt"

	"github.com/adminconsole/admin-console/internal/db/models"
)

// Strategy selects how a save reaches the store.
type Strategy string

const (
	// Incremental creates missing keys and updates changed ones, nothing is deleted.
	Incremental Strategy = "incremental"
	// ReplaceAll deletes every record of the saved domains and recreates the working set.
	// Like Incremental it is a no-op when the working set equals the snapshot,
	// so it does not force a rewrite of a store that drifted from the snapshot.
	ReplaceAll Strategy = "replace-all"
)

// ParseStrategy parses a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(name); s {
	case Incremental, ReplaceAll:
		return s, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// OpKind is the kind of a store call.
type OpKind string

const (
	// OpCreate inserts a record.
	OpCreate OpKind = "create"
	// OpUpdate changes the value of a record.
	OpUpdate OpKind = "update"
	// OpDelete removes a record.
	OpDelete OpKind = "delete"
)

// Op is one planned store call.
type Op struct {
	Kind   OpKind
	ID     uint64         // update and delete
	Record models.Setting // create, and category/key/value of an update
}

// Plan lists the store calls of one save. It is executed in two phases: all
// Deletes run concurrently and must succeed before the Writes start, because
// (category, key) is unique in the store and replace-all recreates the keys it
// deletes. Calls within a phase have no order.
type Plan struct {
	Deletes []Op
	Writes  []Op
}

// Len returns the number of store calls.
func (p Plan) Len() int {
	return len(p.Deletes) + len(p.Writes)
}

// Count returns the number of calls of a kind.
func (p Plan) Count(kind OpKind) int {
	n := 0

	for _, ops := range [][]Op{p.Deletes, p.Writes} {
		for _, op := range ops {
			if op.Kind == kind {
				n++
			}
		}
	}

	return n
}

type recordKey struct {
	category string
	key      string
}

// BuildPlan computes the store calls bringing existing in line with working.
// It performs no I/O.
//
// Incremental only considers keys whose working value differs from snapshot,
// each is created when missing from existing and updated when its stored
// encoding differs. ReplaceAll ignores snapshot.
func BuildPlan(registry *Registry, working, snapshot State, existing []models.Setting, strategy Strategy) Plan {
	var plan Plan

	if strategy == ReplaceAll {
		for _, rec := range existing {
			if _, ok := working[rec.Category]; !ok {
				continue
			}

			plan.Deletes = append(plan.Deletes, Op{Kind: OpDelete, ID: rec.ID, Record: rec})
		}

		for _, domain := range working.Domains() {
			for _, key := range working[domain].Keys() {
				plan.Writes = append(plan.Writes, createOp(registry, domain, key, working[domain][key]))
			}
		}

		return plan
	}

	stored := make(map[recordKey]models.Setting, len(existing))
	for _, rec := range existing {
		stored[recordKey{rec.Category, rec.Key}] = rec
	}

	for _, domain := range working.Domains() {
		for _, key := range working[domain].Keys() {
			val := working[domain][key]

			if prev, ok := snapshot[domain][key]; ok && prev.Equal(val) {
				continue
			}

			rec, ok := stored[recordKey{domain, key}]
			if !ok {
				plan.Writes = append(plan.Writes, createOp(registry, domain, key, val))

				continue
			}

			encoded := val.Encode()
			if rec.Value == encoded {
				continue
			}

			rec.Value = encoded
			plan.Writes = append(plan.Writes, Op{Kind: OpUpdate, ID: rec.ID, Record: rec})
		}
	}

	return plan
}

func createOp(registry *Registry, domain, key string, val Value) Op {
	var schema *Schema
	if registry != nil {
		schema = registry.schemas[domain]
	}

	return Op{
		Kind: OpCreate,
		Record: models.Setting{
			Category: domain,
			Key:      key,
			Value:    val.Encode(),
			Label:    Label(key),
			DataType: schema.DataType(key, val),
		},
	}
}
