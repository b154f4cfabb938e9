package api

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/internal/eventbus"
)

func factoryFor(ref *Ref, v string) *Factory {
	return Instance(ref, v)
}

func create(t *testing.T, f *Factory) any {
	t.Helper()
	v, err := f.Create(nil)
	require.NoError(t, err)
	return v
}

func TestRegistry_StaticOverridesApp(t *testing.T) {
	ref := MustRef("core.config")
	reg := NewRegistry()

	require.True(t, reg.Register(ScopeApp, factoryFor(ref, "app")))
	require.True(t, reg.Register(ScopeStatic, factoryFor(ref, "static")))

	f, ok := reg.Get(ref)
	require.True(t, ok)
	assert.Equal(t, "static", create(t, f))
}

func TestRegistry_AppCannotOverrideStatic(t *testing.T) {
	ref := MustRef("core.config")
	reg := NewRegistry()
	static := factoryFor(ref, "static")

	require.True(t, reg.Register(ScopeStatic, static))
	assert.False(t, reg.Register(ScopeApp, factoryFor(ref, "app")))

	f, ok := reg.Get(ref)
	require.True(t, ok)
	assert.Same(t, static, f)
}

func TestRegistry_EqualPriorityKeepsFirst(t *testing.T) {
	ref := MustRef("core.alert")
	reg := NewRegistry()
	first := factoryFor(ref, "first")

	assert.True(t, reg.Register(ScopeDefault, first))
	assert.False(t, reg.Register(ScopeDefault, factoryFor(ref, "second")))

	f, _ := reg.Get(ref)
	assert.Same(t, first, f)
	e, ok := reg.Lookup(ref)
	require.True(t, ok)
	assert.Equal(t, ScopeDefault, e.Scope)
	assert.Equal(t, 10, e.Priority)
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := NewRegistry()
	f, ok := reg.Get(MustRef("core.missing"))
	assert.False(t, ok)
	assert.Nil(t, f)
	_, ok = reg.Get(nil)
	assert.False(t, ok)
}

func TestRegistry_IdentityKeys(t *testing.T) {
	a := MustRef("core.flags")
	b := MustRef("core.flags")
	reg := NewRegistry()

	require.True(t, reg.Register(ScopeDefault, factoryFor(a, "a")))
	require.True(t, reg.Register(ScopeDefault, factoryFor(b, "b")), "same id, different ref")

	fa, _ := reg.Get(a)
	fb, _ := reg.Get(b)
	assert.Equal(t, "a", create(t, fa))
	assert.Equal(t, "b", create(t, fb))
	assert.Len(t, reg.GetAllAPIs(), 2)

	entries := reg.Entries()
	require.Len(t, entries, 2)
	assert.Same(t, a, entries[0].API)
	assert.Same(t, b, entries[1].API)
}

func TestRegistry_GetAllAPIs(t *testing.T) {
	a := MustRef("api.a")
	b := MustRef("api.b")
	reg := NewRegistry()
	reg.Register(ScopeDefault, factoryFor(a, "a"))
	reg.Register(ScopeDefault, factoryFor(b, "b"))
	reg.Register(ScopeDefault, factoryFor(a, "dup"))

	all := reg.GetAllAPIs()
	assert.Equal(t, map[*Ref]struct{}{a: {}, b: {}}, all)

	delete(all, a)
	all[MustRef("api.c")] = struct{}{}
	assert.Equal(t, map[*Ref]struct{}{a: {}, b: {}}, reg.GetAllAPIs())
}

func TestRegistry_RejectsInvalidInput(t *testing.T) {
	ref := MustRef("core.config")
	reg := NewRegistry()
	assert.False(t, reg.Register(ScopeDefault, nil))
	assert.False(t, reg.Register(ScopeDefault, &Factory{}))
	assert.False(t, reg.Register(Scope("plugin"), factoryFor(ref, "x")))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_PublishesEvents(t *testing.T) {
	bus := eventbus.New[events.Event]()
	sub := bus.Subscribe()
	ref := MustRef("core.config")
	reg := NewRegistry(WithEvents(bus))

	reg.Register(ScopeStatic, factoryFor(ref, "static"))
	reg.Register(ScopeApp, factoryFor(ref, "app"))

	first := (<-sub).(events.Registration)
	assert.True(t, first.Accepted)
	assert.Equal(t, "core.config", first.API)
	assert.Equal(t, "static", first.Scope)
	assert.Empty(t, first.Previous)
	assert.NotEmpty(t, first.ID)

	second := (<-sub).(events.Registration)
	assert.False(t, second.Accepted)
	assert.Equal(t, 50, second.Priority)
	assert.Equal(t, "static", second.Previous)
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	ref := MustRef("core.config")
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scope := Scopes()[i%3]
			reg.Register(scope, factoryFor(ref, scope.String()))
		}(i)
	}
	wg.Wait()
	e, ok := reg.Lookup(ref)
	require.True(t, ok)
	assert.Equal(t, ScopeStatic, e.Scope)
}
