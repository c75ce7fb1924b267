package cache

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"tinygit/pkg/storage"
	"tinygit/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUStore_GetHitsCache(t *testing.T) {
	ctx := context.Background()
	spy := NewSpyStore()
	store, err := NewLRUStore(spy, 2)
	require.NoError(t, err)

	hash := types.Hash("aaaa222233334444555566667777888899990000")
	spy.objects[hash] = []byte("payload")

	for i := 0; i < 3; i++ {
		rc, err := store.Get(ctx, hash)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		assert.Equal(t, []byte("payload"), data)
	}

	// 只有第一次穿透到底层
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.getCount))
	assert.Equal(t, 1, store.Len())
}

func TestLRUStore_PutPopulates(t *testing.T) {
	ctx := context.Background()
	spy := NewSpyStore()
	store, err := NewLRUStore(spy, 0)
	require.NoError(t, err)

	obj := mockObject{id: "bbbb222233334444555566667777888899990000"}
	require.NoError(t, store.Put(ctx, obj))
	assert.Equal(t, int32(1), atomic.LoadInt32(&spy.putCount))

	ok, err := store.Has(ctx, obj.id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(0), atomic.LoadInt32(&spy.hasCount), "命中缓存时不查底层")

	rc, err := store.Get(ctx, obj.id)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int32(0), atomic.LoadInt32(&spy.getCount))
}

func TestLRUStore_MissingPropagates(t *testing.T) {
	store, err := NewLRUStore(NewSpyStore(), 4)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "cccc222233334444555566667777888899990000")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 0, store.Len())
}
