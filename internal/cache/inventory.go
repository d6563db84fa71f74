package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	DiaryKeyPrefix      = "diary:%d"
	CollectionKeyPrefix = "collection:%d"
	RosterKeyPrefix     = "diary:%d:roster"
)

const (
	UserTTL       = 5 * time.Minute
	DiaryTTL      = 2 * time.Minute
	CollectionTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func DiaryKey(diaryID uint) string {
	return fmt.Sprintf(DiaryKeyPrefix, diaryID)
}

func CollectionKey(collectionID uint) string {
	return fmt.Sprintf(CollectionKeyPrefix, collectionID)
}

func RosterKey(diaryID uint) string {
	return fmt.Sprintf(RosterKeyPrefix, diaryID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateDiary(ctx context.Context, diaryID uint) {
	Invalidate(ctx, DiaryKey(diaryID))
	Invalidate(ctx, RosterKey(diaryID))
}

func InvalidateCollection(ctx context.Context, collectionID uint) {
	Invalidate(ctx, CollectionKey(collectionID))
}
