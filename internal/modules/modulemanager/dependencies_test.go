package modulemanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphOf(t *testing.T, mods ...*fakeModule) (*ModuleDependencyGraph, error) {
	t.Helper()
	var calls []string
	byID := map[string]Module{}
	for _, m := range mods {
		m.calls = &calls
		byID[m.id] = m
	}
	return BuildDependencyGraph(byID, nil)
}

func ids(mods []Module) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.ID())
	}
	return out
}

func TestInitializationOrder(t *testing.T) {
	g, err := graphOf(t,
		&fakeModule{id: "search", requires: []string{"catalog"}},
		&fakeModule{id: "metrics"},
		&fakeModule{id: "catalog", provides: []string{"catalog"}, requires: []string{"identity"}},
		&fakeModule{id: "identity", provides: []string{"identity"}},
		&fakeModule{id: "ads", deps: []string{"search"}, requires: []string{"identity"}},
	)
	require.NoError(t, err)

	order, err := g.GetInitializationOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"identity", "metrics", "catalog", "search", "ads"}, ids(order))
	assert.Empty(t, g.ValidateServiceRequirements())
}

func TestBuildDependencyGraphErrors(t *testing.T) {
	_, err := graphOf(t, &fakeModule{id: "ads", deps: []string{"billing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown module billing")

	_, err = graphOf(t,
		&fakeModule{id: "a", provides: []string{"catalog"}},
		&fakeModule{id: "b", provides: []string{"catalog"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `service "catalog" is provided by both a and b`)

	_, err = graphOf(t,
		&fakeModule{id: "a", deps: []string{"b"}},
		&fakeModule{id: "b", deps: []string{"c"}},
		&fakeModule{id: "c", deps: []string{"a"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestMissingServiceIsReportedNotFatal(t *testing.T) {
	g, err := graphOf(t, &fakeModule{id: "brands", requires: []string{"catalog"}})
	require.NoError(t, err)

	order, err := g.GetInitializationOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"brands"}, ids(order))

	errs := g.ValidateServiceRequirements()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `module brands requires service "catalog"`)
}
