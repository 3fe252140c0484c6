package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, Channel(PostLiked))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p := NewRedisPublisher(rdb)
	require.NoError(t, p.Publish(ctx, PostEvent{Type: PostLiked, PostID: 7, ActorID: 2, OwnerID: 1}))

	select {
	case msg := <-sub.Channel():
		var got PostEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, uint(7), got.PostID)
		assert.Equal(t, uint(2), got.ActorID)
		assert.False(t, got.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}

func TestRedisPublisher_NilClient(t *testing.T) {
	assert.NoError(t, NewRedisPublisher(nil).Publish(context.Background(), PostEvent{Type: PostCreated}))
}

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	closed   bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func TestNATSPublisher_UsesEventTypeAsSubject(t *testing.T) {
	conn := &fakeConn{}
	p := &NATSPublisher{conn: conn}

	require.NoError(t, p.Publish(context.Background(), PostEvent{Type: PostCommented, PostID: 3, CommentID: "c-1"}))
	require.Len(t, conn.subjects, 1)
	assert.Equal(t, PostCommented, conn.subjects[0])

	var got PostEvent
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	assert.Equal(t, "c-1", got.CommentID)

	require.NoError(t, p.Close())
	assert.True(t, conn.closed)
}

func TestEmit_SwallowsPublishErrors(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	assert.NotPanics(t, func() {
		Emit(context.Background(), &NATSPublisher{conn: conn}, PostEvent{Type: PostDeleted, PostID: 1})
		Emit(context.Background(), nil, PostEvent{Type: PostDeleted})
	})
}
