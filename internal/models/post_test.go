package models

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_AddLikePrependsAndRejectsDuplicates(t *testing.T) {
	p := &Post{}

	require.NoError(t, p.AddLike(1))
	require.NoError(t, p.AddLike(2))
	assert.Equal(t, JSONList[Like]{{User: 2}, {User: 1}}, p.Likes)

	err := p.AddLike(1)
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeAlreadyLiked))
	assert.Len(t, p.Likes, 2, "a rejected like must not change the count")
}

func TestPost_RemoveLikeRestoresPriorList(t *testing.T) {
	p := &Post{Likes: JSONList[Like]{{User: 5}, {User: 6}}}
	before := slices.Clone(p.Likes)

	require.NoError(t, p.AddLike(7))
	require.NoError(t, p.RemoveLike(7))
	assert.Equal(t, before, p.Likes)

	err := p.RemoveLike(7)
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeNotLiked))
}

func TestPost_RemoveLikeRemovesOnlyFirstDuplicate(t *testing.T) {
	p := &Post{Likes: JSONList[Like]{{User: 3}, {User: 9}, {User: 3}}}

	require.NoError(t, p.RemoveLike(3))
	assert.Equal(t, JSONList[Like]{{User: 9}, {User: 3}}, p.Likes)
}

func TestPost_CommentRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &Post{Comments: JSONList[Comment]{
		{ID: "a", Text: "first comment", User: 1, Date: now},
		{ID: "b", Text: "second comment", User: 2, Date: now},
	}}
	before := slices.Clone(p.Comments)

	p.AddComment(Comment{ID: "c", Text: "newest comment", User: 3, Date: now})
	assert.Equal(t, "c", p.Comments[0].ID)
	assert.Equal(t, 1, p.CommentIndex("a"))

	removed, err := p.RemoveComment("c")
	require.NoError(t, err)
	assert.Equal(t, "newest comment", removed.Text)
	assert.Equal(t, before, p.Comments)
}

func TestPost_RemoveMissingComment(t *testing.T) {
	p := &Post{}
	_, err := p.RemoveComment("nope")
	require.Error(t, err)
	assert.Equal(t, 404, StatusFor(err))
	assert.Equal(t, -1, p.CommentIndex("nope"))
}

func TestJSONList_ScanAndValue(t *testing.T) {
	var likes JSONList[Like]
	v, err := likes.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, likes.Scan([]byte(`[{"user":4},{"user":2}]`)))
	assert.Equal(t, JSONList[Like]{{User: 4}, {User: 2}}, likes)

	require.NoError(t, likes.Scan("null"))
	assert.NotNil(t, likes)
	assert.Empty(t, likes)

	assert.Error(t, likes.Scan(42))
}
