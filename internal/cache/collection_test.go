package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string
	Name string
}

func newRecordCache() *Collection[record] {
	return NewCollection(func(r record) string { return r.ID })
}

func TestGet_FetchesOnce(t *testing.T) {
	c := newRecordCache()
	calls := 0
	fetch := func() ([]record, error) {
		calls++
		return []record{{ID: "1", Name: "first"}}, nil
	}

	got, err := c.Get("owner", fetch)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = c.Get("owner", fetch)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, calls, "fetch must run only on first access")
}

func TestGet_FetchErrorNotCached(t *testing.T) {
	c := newRecordCache()
	calls := 0
	fetch := func() ([]record, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("store down")
		}
		return []record{{ID: "1"}}, nil
	}

	_, err := c.Get("owner", fetch)
	require.Error(t, err)

	got, err := c.Get("owner", fetch)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, calls)
}

func TestGet_PerOwnerIsolation(t *testing.T) {
	c := newRecordCache()

	_, err := c.Get("owner-a", func() ([]record, error) {
		return []record{{ID: "a1"}}, nil
	})
	require.NoError(t, err)

	got, err := c.Get("owner-b", func() ([]record, error) {
		return []record{{ID: "b1"}, {ID: "b2"}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	gotA, ok := c.Cached("owner-a")
	require.True(t, ok)
	assert.Len(t, gotA, 1)
}

func TestUpsert(t *testing.T) {
	c := newRecordCache()
	_, err := c.Get("owner", func() ([]record, error) {
		return []record{{ID: "1", Name: "old"}}, nil
	})
	require.NoError(t, err)

	// Replace in place.
	c.Upsert("owner", record{ID: "1", Name: "new"})
	got, _ := c.Cached("owner")
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Name)

	// Insert prepends.
	c.Upsert("owner", record{ID: "2", Name: "second"})
	got, _ = c.Cached("owner")
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
}

func TestUpsert_UnloadedOwnerIsNoop(t *testing.T) {
	c := newRecordCache()
	c.Upsert("owner", record{ID: "1"})

	_, ok := c.Cached("owner")
	assert.False(t, ok, "upsert must not mark an unloaded owner as loaded")
}

func TestRemove(t *testing.T) {
	c := newRecordCache()
	_, err := c.Get("owner", func() ([]record, error) {
		return []record{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil
	})
	require.NoError(t, err)

	c.Remove("owner", "2")
	got, _ := c.Cached("owner")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	c.Remove("owner", "missing")
	got, _ = c.Cached("owner")
	assert.Len(t, got, 2)
}

func TestInvalidate(t *testing.T) {
	c := newRecordCache()
	calls := 0
	fetch := func() ([]record, error) {
		calls++
		return []record{{ID: "1"}}, nil
	}

	_, err := c.Get("owner", fetch)
	require.NoError(t, err)

	c.Invalidate("owner")
	_, ok := c.Cached("owner")
	assert.False(t, ok)

	_, err = c.Get("owner", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSnapshot_CallerCannotMutateCache(t *testing.T) {
	c := newRecordCache()
	_, err := c.Get("owner", func() ([]record, error) {
		return []record{{ID: "1", Name: "canonical"}}, nil
	})
	require.NoError(t, err)

	got, _ := c.Cached("owner")
	got[0].Name = "tampered"

	again, _ := c.Cached("owner")
	assert.Equal(t, "canonical", again[0].Name)
}

func TestConcurrentAccess(t *testing.T) {
	c := newRecordCache()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Get("owner", func() ([]record, error) {
				return []record{{ID: "1"}}, nil
			})
			c.Upsert("owner", record{ID: "1", Name: "x"})
			c.Cached("owner")
		}()
	}
	wg.Wait()

	got, ok := c.Cached("owner")
	require.True(t, ok)
	assert.Len(t, got, 1)
}
