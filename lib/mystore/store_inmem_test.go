package mystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type taco struct {
	UID   string
	Name  string
	Price int64
}

var (
	carnitas = taco{UID: "123", Name: "Carnitas Taco", Price: 350}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	ts, cleanup, err := newInMemoryStore[taco](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := ts.Get(c, carnitas.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = ts.Put(c, carnitas.UID, carnitas)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		got, found, err := ts.Get(c, carnitas.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, taco{UID: "123", Name: "Carnitas Taco", Price: 350}, got)
	})

	t.Run("List", func(t *testing.T) {
		all, err := ts.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []taco{carnitas}, all)
	})

	t.Run("Delete", func(t *testing.T) {
		err := ts.Delete(c, carnitas.UID)
		assert.NoError(t, err)

		_, found, err := ts.Get(c, carnitas.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		err := ts.Delete(c, carnitas.UID)
		assert.NoError(t, err)
	})

	t.Run("Transactional put and delete", func(t *testing.T) {
		err := ts.RunInTransaction(c, func(c context.Context) error {
			err := ts.Put(c, carnitas.UID, carnitas)
			assert.NoError(t, err)

			_, found, err := ts.Get(c, carnitas.UID)
			assert.NoError(t, err)
			assert.True(t, found)

			return ts.Delete(c, carnitas.UID)
		})
		assert.NoError(t, err)

		_, found, err := ts.Get(c, carnitas.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}
