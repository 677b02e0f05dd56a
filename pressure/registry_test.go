package pressure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_RegisterGetRemove(t *testing.T) {
	r := NewRegistry()
	cache := &fakeCache{kind: PlainKind, tokens: 10}

	id, err := r.Register("chat", cache)
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	got, ok := r.Get("chat")
	assert.True(t, ok)
	assert.Same(t, cache, got.(*fakeCache))

	assert.True(t, r.Remove("chat"))
	assert.False(t, r.Remove("chat"))
	_, ok = r.Get("chat")
	assert.False(t, ok)
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("chat", &fakeCache{})
	assert.NoError(t, err)
	_, err = r.Register("chat", &fakeCache{})
	assert.Error(t, err)
}

func TestRegistry_NamesSortedAndCachesAligned(t *testing.T) {
	r := NewRegistry()
	b := &fakeCache{tokens: 2}
	a := &fakeCache{tokens: 1}
	_, _ = r.Register("beta", b)
	_, _ = r.Register("alpha", a)

	assert.Equal(t, []string{"alpha", "beta"}, r.Names())
	caches := r.Caches()
	assert.Len(t, caches, 2)
	assert.Same(t, a, caches[0].(*fakeCache))
	assert.Same(t, b, caches[1].(*fakeCache))
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Register("one", &fakeCache{})
	_, _ = r.Register("two", &fakeCache{})
	assert.Equal(t, 2, r.Len())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Names())
}
