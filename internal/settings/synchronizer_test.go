package settings_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/settings"
)

// breakpointRegistry has a display domain declaring only mobileBreakpoint.
func breakpointRegistry(t *testing.T) *settings.Registry {
	t.Helper()

	reg, err := settings.NewRegistry(
		[]*settings.Schema{
			settings.NewSchema("display",
				settings.Field{Key: "mobileBreakpoint", Kind: settings.KindNumber, Default: settings.Number(768)},
			),
		},
		[]settings.Group{{Name: "display", Domains: []string{"display"}, Strategy: settings.Incremental}},
	)
	require.NoError(t, err)

	return reg
}

func TestScenarioMobileBreakpoint(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	reg := breakpointRegistry(t)

	working, snapshot, err := settings.NewReconciler(store, reg).Load(ctx, "display")
	require.NoError(t, err)
	assert.True(t, working.Equal(settings.Values{"mobileBreakpoint": settings.Number(768)}))

	working["mobileBreakpoint"] = settings.Number(800)
	store.resetCounters()

	syncer := settings.NewSynchronizer(store, reg)

	snapshot, err = syncer.Save(ctx, "display", working, snapshot, settings.Incremental)
	require.NoError(t, err)
	assert.True(t, snapshot.Equal(working))

	require.Len(t, store.created, 1)
	assert.Equal(t, models.Setting{
		ID:       1,
		Category: "display",
		Key:      "mobileBreakpoint",
		Value:    "800",
		Label:    "Mobile Breakpoint",
		DataType: models.DataTypeNumber,
	}, store.created[0])
	assert.Equal(t, 1, store.writes())

	store.resetCounters()

	_, err = syncer.Save(ctx, "display", working, snapshot, settings.Incremental)
	require.NoError(t, err)
	assert.Zero(t, store.calls())
}

func TestSaveUnchangedIssuesNoCalls(t *testing.T) {
	for _, strategy := range []settings.Strategy{settings.Incremental, settings.ReplaceAll} {
		t.Run(string(strategy), func(t *testing.T) {
			store := newMemoryStore(models.Setting{Category: "theme", Key: "fontSize", Value: "16"})
			reg := settings.DefaultRegistry()

			working, snapshot, err := settings.NewReconciler(store, reg).Load(context.Background(), "theme")
			require.NoError(t, err)

			store.resetCounters()

			next, err := settings.NewSynchronizer(store, reg).Save(context.Background(), "theme", working, snapshot, strategy)
			require.NoError(t, err)
			assert.Zero(t, store.calls())
			assert.True(t, next.Equal(snapshot))
		})
	}
}

func TestIncrementalSingleChange(t *testing.T) {
	existing := func() *memoryStore {
		var records []models.Setting
		for key, val := range settings.ThemeSchema().Defaults() {
			records = append(records, models.Setting{Category: "theme", Key: key, Value: val.Encode()})
		}

		return newMemoryStore(records...)
	}

	testCases := []struct {
		name    string
		store   *memoryStore
		updates int
		creates int
	}{
		{name: "key already stored", store: existing(), updates: 1},
		{name: "key not stored yet", store: newMemoryStore(), creates: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			reg := settings.DefaultRegistry()

			working, snapshot, err := settings.NewReconciler(tc.store, reg).Load(ctx, "theme")
			require.NoError(t, err)

			working["fontSize"] = settings.Number(18)
			tc.store.resetCounters()

			_, err = settings.NewSynchronizer(tc.store, reg).Save(ctx, "theme", working, snapshot, settings.Incremental)
			require.NoError(t, err)

			assert.Equal(t, tc.updates, tc.store.updates)
			assert.Equal(t, tc.creates, tc.store.creates)
			assert.Zero(t, tc.store.deletes)

			stored, ok := tc.store.value("theme", "fontSize")
			require.True(t, ok)
			assert.Equal(t, "18", stored)
		})
	}
}

func TestIncrementalKeepsUnknownKeys(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(
		models.Setting{Category: "theme", Key: "wallpaper", Value: `"stars"`},
		models.Setting{Category: "theme", Key: "fontSize", Value: "16"},
	)
	reg := settings.DefaultRegistry()

	working, snapshot, err := settings.NewReconciler(store, reg).Load(ctx, "theme")
	require.NoError(t, err)

	working["fontSize"] = settings.Number(14)

	_, err = settings.NewSynchronizer(store, reg).Save(ctx, "theme", working, snapshot, settings.Incremental)
	require.NoError(t, err)

	assert.Zero(t, store.deletes)
	stored, ok := store.value("theme", "wallpaper")
	require.True(t, ok)
	assert.Equal(t, `"stars"`, stored)
}

func TestIncrementalSkipsValuesAlreadyStored(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(models.Setting{Category: "theme", Key: "fontSize", Value: "18"})
	reg := settings.DefaultRegistry()

	// snapshot is stale, another session stored 18 meanwhile
	snapshot := settings.ThemeSchema().Defaults()
	working := snapshot.Clone()
	working["fontSize"] = settings.Number(18)

	_, err := settings.NewSynchronizer(store, reg).Save(ctx, "theme", working, snapshot, settings.Incremental)
	require.NoError(t, err)
	assert.Zero(t, store.writes())
}

func TestReplaceAllCompleteness(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(
		models.Setting{Category: "display", Key: "mobileBreakpoint", Value: "768"},
		models.Setting{Category: "display", Key: "legacyKey", Value: `"x"`},
		models.Setting{Category: "theme", Key: "fontSize", Value: "16"},
	)
	reg := settings.DefaultRegistry()

	working, snapshot, err := settings.NewReconciler(store, reg).Load(ctx, "display")
	require.NoError(t, err)

	working["compactMode"] = settings.Bool(true)
	store.resetCounters()

	next, err := settings.NewSynchronizer(store, reg).Save(ctx, "display", working, snapshot, settings.ReplaceAll)
	require.NoError(t, err)
	assert.True(t, next.Equal(working))

	assert.Equal(t, 2, store.deletes)
	assert.Equal(t, len(working), store.creates)
	assert.Zero(t, store.updates)

	// the theme record is untouched
	_, ok := store.value("theme", "fontSize")
	assert.True(t, ok)
	_, ok = store.value("display", "legacyKey")
	assert.False(t, ok)

	for _, rec := range store.created {
		assert.Equal(t, settings.Label(rec.Key), rec.Label)
	}
}

func TestReplaceAllSystemGroup(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	reg := settings.DefaultRegistry()
	group, err := reg.LookupGroup(settings.GroupSystem)
	require.NoError(t, err)

	working, snapshot, err := settings.NewReconciler(store, reg).LoadState(ctx, group.Domains...)
	require.NoError(t, err)

	working["system"]["maintenanceMode"] = settings.Bool(true)

	var (
		mu      sync.Mutex
		actions []models.ActionType
		details any
	)

	rec := recorderFunc(func(_ context.Context, action models.ActionType, _, _ string, d any) {
		mu.Lock()
		defer mu.Unlock()

		actions = append(actions, action)
		details = d
	})

	next, err := settings.NewSynchronizer(store, reg, settings.WithRecorder(rec), settings.WithConcurrency(2)).
		SaveState(ctx, working, snapshot, settings.ReplaceAll)
	require.NoError(t, err)
	assert.True(t, next.Equal(working))

	total := 0
	for _, d := range group.Domains {
		total += len(working[d])
	}

	assert.Equal(t, total, store.creates)

	stored, ok := store.value("system", "maintenanceMode")
	require.True(t, ok)
	assert.Equal(t, "true", stored)

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []models.ActionType{models.ActionSystemUpdated}, actions)
	require.IsType(t, map[string]any{}, details)
	assert.Equal(t, []string{"api", "notifications", "security", "system"}, details.(map[string]any)["domains"])
}

func TestSaveFailureKeepsSnapshot(t *testing.T) {
	testCases := []struct {
		name     string
		strategy settings.Strategy
		prepare  func(*memoryStore)
	}{
		{
			name:     "list fails",
			strategy: settings.Incremental,
			prepare:  func(s *memoryStore) { s.failList = true },
		},
		{
			name:     "one create fails",
			strategy: settings.ReplaceAll,
			prepare: func(s *memoryStore) {
				s.failCreate = func(rec models.Setting) bool { return rec.Key == "fontSize" }
			},
		},
		{
			name:     "update fails",
			strategy: settings.Incremental,
			prepare: func(s *memoryStore) {
				s.failUpdate = true
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := newMemoryStore(models.Setting{Category: "theme", Key: "fontSize", Value: "16"})
			reg := settings.DefaultRegistry()

			working, snapshot, err := settings.NewReconciler(store, reg).Load(ctx, "theme")
			require.NoError(t, err)

			working["fontSize"] = settings.Number(20)
			tc.prepare(store)

			audited := false
			rec := recorderFunc(func(context.Context, models.ActionType, string, string, any) { audited = true })

			next, err := settings.NewSynchronizer(store, reg, settings.WithRecorder(rec)).
				Save(ctx, "theme", working, snapshot, tc.strategy)
			require.ErrorIs(t, err, settings.ErrSaveFailed)
			assert.True(t, next.Equal(snapshot))
			assert.False(t, audited)
		})
	}
}

func TestReplaceAllFailedDeleteSkipsCreates(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(
		models.Setting{Category: "theme", Key: "fontSize", Value: "16"},
		models.Setting{Category: "theme", Key: "spacing", Value: "16"},
	)
	reg := settings.DefaultRegistry()

	working, snapshot, err := settings.NewReconciler(store, reg).Load(ctx, "theme")
	require.NoError(t, err)

	working["fontSize"] = settings.Number(20)
	store.failDelete = true
	store.resetCounters()

	next, err := settings.NewSynchronizer(store, reg).Save(ctx, "theme", working, snapshot, settings.ReplaceAll)
	require.ErrorIs(t, err, settings.ErrSaveFailed)
	require.ErrorIs(t, err, errStoreDown)
	assert.True(t, next.Equal(snapshot))

	store.mu.Lock()
	defer store.mu.Unlock()

	assert.Equal(t, 2, store.deletes)
	assert.Zero(t, store.creates)
}

func TestAuditFailureDoesNotFailSave(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	reg := settings.DefaultRegistry()

	working, snapshot, err := settings.NewReconciler(store, reg).Load(ctx, "theme")
	require.NoError(t, err)

	working["animations"] = settings.Bool(false)

	broken := recorderFunc(func(context.Context, models.ActionType, string, string, any) {
		// a recorder swallowing its own failure
		defer func() { _ = recover() }()
		panic("activity store down")
	})

	next, err := settings.NewSynchronizer(store, reg, settings.WithRecorder(broken)).
		Save(ctx, "theme", working, snapshot, settings.Incremental)
	require.NoError(t, err)
	assert.True(t, next.Equal(working))
}

func TestSaveRejectsUnknownStrategyAndDomain(t *testing.T) {
	store := newMemoryStore()
	syncer := settings.NewSynchronizer(store, settings.DefaultRegistry())
	changed := settings.Values{"x": settings.Bool(true)}

	_, err := syncer.Save(context.Background(), "theme", changed, settings.Values{}, settings.Strategy("merge"))
	require.ErrorIs(t, err, settings.ErrUnknownStrategy)

	_, err = syncer.Save(context.Background(), "nothing", changed, settings.Values{}, settings.Incremental)
	require.ErrorIs(t, err, settings.ErrUnknownDomain)

	assert.Zero(t, store.calls())
}

func TestParseStrategy(t *testing.T) {
	s, err := settings.ParseStrategy("replace-all")
	require.NoError(t, err)
	assert.Equal(t, settings.ReplaceAll, s)

	_, err = settings.ParseStrategy("")
	require.ErrorIs(t, err, settings.ErrUnknownStrategy)
}

func TestBuildPlan(t *testing.T) {
	reg := settings.DefaultRegistry()
	existing := []models.Setting{
		{ID: 1, Category: "theme", Key: "fontSize", Value: "16"},
		{ID: 2, Category: "theme", Key: "spacing", Value: "16"},
	}
	snapshot := settings.State{"theme": {
		"fontSize": settings.Number(16),
		"spacing":  settings.Number(16),
	}}
	working := settings.State{"theme": {
		"fontSize":     settings.Number(18),
		"spacing":      settings.Number(16),
		"primaryColor": settings.Color("#000000"),
	}}

	plan := settings.BuildPlan(reg, working, snapshot, existing, settings.Incremental)
	assert.Equal(t, 2, plan.Len())
	assert.Equal(t, 1, plan.Count(settings.OpUpdate))
	assert.Equal(t, 1, plan.Count(settings.OpCreate))
	assert.Empty(t, plan.Deletes)

	for _, op := range plan.Writes {
		switch op.Kind {
		case settings.OpUpdate:
			assert.Equal(t, uint64(1), op.ID)
			assert.Equal(t, "18", op.Record.Value)
		case settings.OpCreate:
			assert.Equal(t, models.DataTypeColor, op.Record.DataType)
			assert.Equal(t, "Primary Color", op.Record.Label)
		}
	}

	plan = settings.BuildPlan(reg, working, snapshot, existing, settings.ReplaceAll)
	assert.Len(t, plan.Deletes, 2)
	assert.Len(t, plan.Writes, 3)
	assert.Equal(t, 3, plan.Count(settings.OpCreate))
}
