package resultcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domlocate/domlocate/internal/types"
)

var ttl = 30 * time.Second

func matches(selectors ...string) []types.ElementMatch {
	out := make([]types.ElementMatch, len(selectors))
	for i, sel := range selectors {
		out[i] = types.ElementMatch{
			Element:    types.ElementDescriptor{TagName: "button", Selector: sel},
			Confidence: 0.9,
		}
	}
	return out
}

func TestKeyStable(t *testing.T) {
	assert.Equal(t, Key("i agree checkbox"), Key("i agree checkbox"))
	assert.NotEqual(t, Key("i agree checkbox"), Key("submit button"))
}

func TestPutGetRoundtrip(t *testing.T) {
	c := New()
	now := time.Now()
	key := Key("submit button")
	stored := matches("#a", "#b")

	c.Put("s1", key, stored, 2, now)
	got, ok := c.Get("s1", key, ttl, 2, now.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, stored, got)
	assert.Equal(t, int64(1), c.Hits())
}

func TestGetMissUnknown(t *testing.T) {
	c := New()
	_, ok := c.Get("nope", Key("x"), ttl, 0, time.Now())
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Misses())
	assert.Zero(t, c.Hits())
}

func TestGetExpiresOnTTL(t *testing.T) {
	c := New()
	now := time.Now()
	key := Key("submit")
	c.Put("s1", key, matches("#a"), 1, now)

	_, ok := c.Get("s1", key, ttl, 1, now.Add(ttl))
	assert.False(t, ok)

	// The expired entry was removed, so a fresh Put must be visible again.
	c.Put("s1", key, matches("#b"), 1, now.Add(ttl))
	got, ok := c.Get("s1", key, ttl, 1, now.Add(ttl+time.Second))
	require.True(t, ok)
	assert.Equal(t, "#b", got[0].Element.Selector)
}

func TestGetInvalidatesOnRegistrySizeChange(t *testing.T) {
	c := New()
	now := time.Now()
	key := Key("submit")
	c.Put("s1", key, matches("#a"), 3, now)

	_, ok := c.Get("s1", key, ttl, 4, now.Add(time.Second))
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Misses())
}

func TestGetReturnsCopy(t *testing.T) {
	c := New()
	now := time.Now()
	key := Key("submit")
	c.Put("s1", key, matches("#a"), 1, now)

	got, ok := c.Get("s1", key, ttl, 1, now.Add(time.Second))
	require.True(t, ok)
	got[0].Element.Selector = "#mutated"

	again, ok := c.Get("s1", key, ttl, 1, now.Add(2*time.Second))
	require.True(t, ok)
	assert.Equal(t, "#a", again[0].Element.Selector)
}

func TestPutCopiesInput(t *testing.T) {
	c := New()
	now := time.Now()
	key := Key("submit")
	stored := matches("#a")
	c.Put("s1", key, stored, 1, now)
	stored[0].Element.Selector = "#mutated"

	got, ok := c.Get("s1", key, ttl, 1, now.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, "#a", got[0].Element.Selector)
}

func TestInvalidateSession(t *testing.T) {
	c := New()
	now := time.Now()
	key := Key("submit")
	c.Put("s1", key, matches("#a"), 1, now)
	c.Put("s2", key, matches("#b"), 1, now)

	c.InvalidateSession("s1")
	_, ok := c.Get("s1", key, ttl, 1, now.Add(time.Second))
	assert.False(t, ok)
	_, ok = c.Get("s2", key, ttl, 1, now.Add(time.Second))
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c := New()
	now := time.Now()
	key := Key("submit")
	c.Put("s1", key, matches("#a"), 1, now)
	c.Put("s2", key, matches("#b"), 1, now)

	c.Clear()
	_, ok := c.Get("s1", key, ttl, 1, now.Add(time.Second))
	assert.False(t, ok)
	_, ok = c.Get("s2", key, ttl, 1, now.Add(time.Second))
	assert.False(t, ok)
}
