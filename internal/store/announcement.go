package store

import (
	"context"
	"time"

	"github.com/chooseyourcart/storefront/internal/repo"
)

const announcementKey = "announcement-popup-seen"

// Announcement gates the promotional popup: show it at most once per
// day, keyed on when it was last dismissed.
type Announcement struct {
	repo *repo.Store
	ttl  time.Duration
	now  func() time.Time
}

func NewAnnouncement(r *repo.Store) *Announcement {
	return &Announcement{repo: r, ttl: 24 * time.Hour, now: time.Now}
}

func (a *Announcement) ShouldShow(ctx context.Context) bool {
	var lastSeen int64
	ok, err := a.repo.Load(ctx, announcementKey, &lastSeen)
	if err != nil || !ok {
		return true
	}
	return a.now().UnixMilli()-lastSeen > a.ttl.Milliseconds()
}

func (a *Announcement) MarkSeen(ctx context.Context) error {
	return a.repo.Save(ctx, announcementKey, a.now().UnixMilli())
}
