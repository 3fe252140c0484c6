package repository

import (
	"context"
	"testing"
	"time"

	"devconnector/internal/cache"
	"devconnector/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_DocumentRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{UserID: 1, Text: "0123456789", Name: "A", Avatar: "//a"}
	require.NoError(t, repo.Create(ctx, post))

	fresh, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Likes)
	assert.Empty(t, fresh.Comments)

	require.NoError(t, fresh.AddLike(2))
	require.NoError(t, fresh.AddLike(3))
	fresh.AddComment(models.Comment{ID: "c1", Text: "nice", User: 2, Date: time.Now().UTC()})
	require.NoError(t, repo.Update(ctx, fresh))

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, stored.Likes, 2)
	assert.Equal(t, uint(3), stored.Likes[0].User)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, "c1", stored.Comments[0].ID)
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"oldest post", "middle post", "newest post"} {
		p := &models.Post{UserID: 1, Text: text, Date: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, p))
	}

	posts, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest post", posts[0].Text)
	assert.Equal(t, "oldest post", posts[2].Text)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "middle post", page[0].Text)
}

func TestPostRepository_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	err := repo.Delete(context.Background(), 42)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	_, err = repo.GetByID(context.Background(), 42)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepository_CacheInvalidatedOnUpdate(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{UserID: 1, Text: "cached post body"}
	require.NoError(t, repo.Create(ctx, post))

	_, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)))

	require.NoError(t, post.AddLike(9))
	require.NoError(t, repo.Update(ctx, post))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)
}

func TestPostRepository_ListCachedUntilWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	first := &models.Post{UserID: 1, Text: "first post body"}
	require.NoError(t, repo.Create(ctx, first))

	posts, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, mr.Exists(cache.PostsListKey))

	// Paged reads bypass the list cache.
	mr.Del(cache.PostsListKey)
	_, err = repo.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.PostsListKey))

	_, err = repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &models.Post{UserID: 1, Text: "second post body"}))
	assert.False(t, mr.Exists(cache.PostsListKey))

	posts, err = repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second post body", posts[0].Text)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.False(t, mr.Exists(cache.PostsListKey))
	posts, err = repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}
