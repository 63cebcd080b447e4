package modulemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mantonx/lineup/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeModule struct {
	id       string
	core     bool
	deps     []string
	provides []string
	requires []string
	calls    *[]string
	healthy  error
}

func (m *fakeModule) ID() string   { return m.id }
func (m *fakeModule) Name() string { return m.id }
func (m *fakeModule) Core() bool   { return m.core }

func (m *fakeModule) Migrate(*gorm.DB) error {
	*m.calls = append(*m.calls, "migrate:"+m.id)
	return nil
}

func (m *fakeModule) Init() error {
	*m.calls = append(*m.calls, "init:"+m.id)
	return nil
}

func (m *fakeModule) Dependencies() []string     { return m.deps }
func (m *fakeModule) ProvidedServices() []string { return m.provides }
func (m *fakeModule) RequiredServices() []string { return m.requires }

func (m *fakeModule) HealthCheck(context.Context) error { return m.healthy }

func (m *fakeModule) Shutdown(context.Context) error {
	*m.calls = append(*m.calls, "shutdown:"+m.id)
	return nil
}

func TestLoadAllOrdersByDependency(t *testing.T) {
	var calls []string
	r := NewRegistry(nil, nil)
	r.Register(&fakeModule{id: "schedule", requires: []string{"catalog"}, calls: &calls})
	r.Register(&fakeModule{id: "catalog", core: true, provides: []string{"catalog"}, calls: &calls})
	r.Register(&fakeModule{id: "ads", deps: []string{"schedule"}, calls: &calls})

	require.NoError(t, r.LoadAll(nil))

	assert.Equal(t, []string{
		"migrate:catalog", "migrate:schedule", "migrate:ads",
		"init:catalog", "init:schedule", "init:ads",
	}, calls)

	calls = nil
	require.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, []string{"shutdown:ads", "shutdown:schedule", "shutdown:catalog"}, calls)
}

func TestLoadAllDetectsCycles(t *testing.T) {
	var calls []string
	r := NewRegistry(nil, nil)
	r.Register(&fakeModule{id: "a", deps: []string{"b"}, calls: &calls})
	r.Register(&fakeModule{id: "b", deps: []string{"a"}, calls: &calls})

	err := r.LoadAll(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
	assert.Empty(t, calls)
}

func TestDisabledModulesAreSkipped(t *testing.T) {
	var calls []string
	r := NewRegistry(nil, nil)
	r.Register(&fakeModule{id: "catalog", core: true, calls: &calls})
	r.Register(&fakeModule{id: "billing", calls: &calls})

	r.DisableModule("billing")
	r.DisableModule("catalog") // core modules stay enabled

	require.NoError(t, r.LoadAll(nil))
	assert.Equal(t, []string{"migrate:catalog", "init:catalog"}, calls)
}

func TestHealthReportsEachModule(t *testing.T) {
	var calls []string
	r := NewRegistry(nil, nil)
	r.Register(&fakeModule{id: "good", calls: &calls})
	r.Register(&fakeModule{id: "bad", healthy: errors.New("db down"), calls: &calls})
	require.NoError(t, r.LoadAll(nil))

	report := r.Health(context.Background())
	assert.Equal(t, HealthStateHealthy, report["good"].Status)
	assert.Equal(t, HealthStateUnhealthy, report["bad"].Status)
	assert.Equal(t, "db down", report["bad"].Message)
}

func TestModuleEventHandlerDispatchesByEntity(t *testing.T) {
	bus := events.NewMemoryBus(nil)
	h := NewModuleEventHandler(bus, nil)

	got := make(chan events.Event, 4)
	h.Handle(events.EntitySeries, func(_ context.Context, e events.Event) { got <- e })
	h.Start(context.Background())
	defer h.Stop()

	require.Eventually(t, func() bool { return bus.SubscriberCount() == 1 }, time.Second, 10*time.Millisecond)

	bus.Publish(context.Background(), events.NewEntityEvent(events.EventCreated, events.EntityAsset, "a1"))
	bus.Publish(context.Background(), events.NewEntityEvent(events.EventReplaced, events.EntitySeries, "s1"))

	select {
	case e := <-got:
		assert.Equal(t, "s1", e.ID)
	case <-time.After(time.Second):
		t.Fatal("series event was not dispatched")
	}
	assert.Len(t, got, 0)
}
