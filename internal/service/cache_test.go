package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherinsights/insights-service/internal/adapter/openmeteo"
)

// requestKey builds keys shaped like the ones Analyze produces, so the tests
// exercise the cache with realistic key material.
func requestKey(location string, window int) string {
	return fmt.Sprintf("%s|2023-01-01|2023-12-31|rolling=true,window=%d", location, window)
}

func TestResultCache(t *testing.T) {
	entryFor := func(name string) cached {
		return cached{place: openmeteo.Place{Name: name}}
	}

	t.Run("stores and returns by key", func(t *testing.T) {
		c := newResultCache(4)
		c.put(requestKey("lisbon", 7), entryFor("Lisbon"))

		got, ok := c.get(requestKey("lisbon", 7))
		require.True(t, ok)
		assert.Equal(t, "Lisbon", got.place.Name)

		_, ok = c.get(requestKey("lisbon", 14))
		assert.False(t, ok, "different configuration is a different key")
	})

	t.Run("capacity one replaces on every insert", func(t *testing.T) {
		c := newResultCache(1)
		c.put(requestKey("lisbon", 7), entryFor("Lisbon"))
		c.put(requestKey("porto", 7), entryFor("Porto"))

		_, ok := c.get(requestKey("lisbon", 7))
		assert.False(t, ok)
		got, ok := c.get(requestKey("porto", 7))
		require.True(t, ok)
		assert.Equal(t, "Porto", got.place.Name)
	})

	t.Run("recently read entries survive eviction", func(t *testing.T) {
		c := newResultCache(2)
		c.put(requestKey("lisbon", 7), entryFor("Lisbon"))
		c.put(requestKey("porto", 7), entryFor("Porto"))

		_, ok := c.get(requestKey("lisbon", 7))
		require.True(t, ok)

		c.put(requestKey("faro", 7), entryFor("Faro"))

		_, ok = c.get(requestKey("lisbon", 7))
		assert.True(t, ok, "read refreshed lisbon")
		_, ok = c.get(requestKey("porto", 7))
		assert.False(t, ok, "porto was least recently used")
	})

	t.Run("put on an existing key replaces the value in place", func(t *testing.T) {
		c := newResultCache(2)
		key := requestKey("lisbon", 7)
		c.put(key, entryFor("Lisbon"))
		c.put(key, entryFor("Lisboa"))
		c.put(requestKey("porto", 7), entryFor("Porto"))

		got, ok := c.get(key)
		require.True(t, ok, "re-put must not count as a second entry")
		assert.Equal(t, "Lisboa", got.place.Name)
	})

	t.Run("concurrent readers and writers", func(t *testing.T) {
		c := newResultCache(8)
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					key := requestKey(fmt.Sprintf("city-%d", i%16), g)
					c.put(key, entryFor(key))
					c.get(key)
				}
			}(g)
		}
		wg.Wait()

		assert.LessOrEqual(t, len(c.entries), 8)
	})
}
