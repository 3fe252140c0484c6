package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix          = "post:%d"
	ProfileHandleKeyPrefix = "profile:handle:%s"
	ProfileUserKeyPrefix   = "profile:user:%d"
	PostsListKey           = "posts:list"
	ProfilesListKey        = "profiles:list"
)

const (
	PostTTL    = 30 * time.Minute
	ProfileTTL = 10 * time.Minute
	ListTTL    = time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ProfileHandleKey(handle string) string {
	return fmt.Sprintf(ProfileHandleKeyPrefix, handle)
}

func ProfileUserKey(userID uint) string {
	return fmt.Sprintf(ProfileUserKeyPrefix, userID)
}

// Invalidate deletes keys. Failures are ignored; entries expire by TTL anyway.
func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidatePost drops the cached post and the post listing.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID), PostsListKey)
}

// InvalidateProfile drops every cached view of a profile.
func InvalidateProfile(ctx context.Context, userID uint, handles ...string) {
	keys := []string{ProfileUserKey(userID), ProfilesListKey}
	for _, h := range handles {
		if h != "" {
			keys = append(keys, ProfileHandleKey(h))
		}
	}
	Invalidate(ctx, keys...)
}
