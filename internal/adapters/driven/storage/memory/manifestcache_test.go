package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

func TestManifestCache_Lifecycle(t *testing.T) {
	cache := NewManifestCache()
	ctx := context.Background()

	_, err := cache.Get(ctx, "a1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	m := &domain.ArticleManifest{ID: "a1", Version: 2, Checksum: "c", Signature: "s"}
	require.NoError(t, cache.Set(ctx, m))

	got, err := cache.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, *m, *got)

	require.NoError(t, cache.Invalidate(ctx, "a1"))
	_, err = cache.Get(ctx, "a1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManifestCache_Set_Invalid(t *testing.T) {
	cache := NewManifestCache()
	assert.ErrorIs(t, cache.Set(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, cache.Set(context.Background(), &domain.ArticleManifest{}), domain.ErrInvalidInput)
}
