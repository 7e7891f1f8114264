package inmem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/llkgram/service/dao"
)

func TestStore_CreateAndGetByID(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := NewDatastore()

	created, err := st.Grammars().Create(ctx, dao.Grammar{CacheKey: "k1", Description: []byte("desc")})
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual("", created.ID.String())

	got, err := st.Grammars().GetByID(ctx, created.ID)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created, got)
}

func TestStore_GetByID_NotFound(t *testing.T) {
	assert := assert.New(t)
	st := NewDatastore()

	_, err := st.Grammars().GetByID(context.Background(), [16]byte{})
	assert.ErrorIs(err, dao.ErrNotFound)
}

func TestStore_GetByCacheKey(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := NewDatastore()

	created, err := st.Grammars().Create(ctx, dao.Grammar{CacheKey: "unique-key"})
	if !assert.NoError(err) {
		return
	}

	got, err := st.Grammars().GetByCacheKey(ctx, "unique-key")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.ID, got.ID)

	_, err = st.Grammars().GetByCacheKey(ctx, "no-such-key")
	assert.ErrorIs(err, dao.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := NewDatastore()

	created, err := st.Grammars().Create(ctx, dao.Grammar{CacheKey: "k1"})
	if !assert.NoError(err) {
		return
	}

	_, err = st.Grammars().Delete(ctx, created.ID)
	assert.NoError(err)

	_, err = st.Grammars().GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func TestStore_GetAll(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := NewDatastore()

	_, err := st.Grammars().Create(ctx, dao.Grammar{CacheKey: "a"})
	assert.NoError(err)
	_, err = st.Grammars().Create(ctx, dao.Grammar{CacheKey: "b"})
	assert.NoError(err)

	all, err := st.Grammars().GetAll(ctx)
	if !assert.NoError(err) {
		return
	}
	assert.Len(all, 2)
}
