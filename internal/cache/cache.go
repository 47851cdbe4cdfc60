// Package cache holds the process-wide read-through blob cache. The store
// stays the source of truth; everything here is a pure accelerator for
// whole, immutable objects.
package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	DefaultThumbnailTTL = 10 * time.Minute
	DefaultVideoTTL     = 1 * time.Minute

	// Whole videos are only cached below this size. Byte ranges are never
	// cached on their own key: range diversity would make that unbounded.
	DefaultMaxVideoBytes int64  = 2 << 20
	DefaultMaxVideoItems uint64 = 64
)

type BlobCache struct {
	thumbnails    *ttlcache.Cache[int64, []byte]
	videos        *ttlcache.Cache[int64, []byte]
	maxVideoBytes int64
}

// New builds the two cache classes. The ttlcache janitor is deliberately
// never started: expiry stays passive and is checked on read.
func New(thumbnailTTL time.Duration, videoTTL time.Duration, maxVideoBytes int64, maxVideoItems uint64) *BlobCache {
	thumbnails := ttlcache.New[int64, []byte](
		ttlcache.WithTTL[int64, []byte](thumbnailTTL),
		ttlcache.WithDisableTouchOnHit[int64, []byte](),
	)

	videos := ttlcache.New[int64, []byte](
		ttlcache.WithTTL[int64, []byte](videoTTL),
		ttlcache.WithCapacity[int64, []byte](maxVideoItems),
		ttlcache.WithDisableTouchOnHit[int64, []byte](),
	)

	return &BlobCache{
		thumbnails:    thumbnails,
		videos:        videos,
		maxVideoBytes: maxVideoBytes,
	}
}

func NewDefault() *BlobCache {
	return New(DefaultThumbnailTTL, DefaultVideoTTL, DefaultMaxVideoBytes, DefaultMaxVideoItems)
}

func (b *BlobCache) GetThumbnail(id int64) ([]byte, bool) {
	item := b.thumbnails.Get(id)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (b *BlobCache) SetThumbnail(id int64, data []byte) {
	b.thumbnails.Set(id, data, ttlcache.DefaultTTL)
}

func (b *BlobCache) GetVideo(id int64) ([]byte, bool) {
	item := b.videos.Get(id)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// SetVideo admits only small whole objects; larger payloads are silently
// skipped and will be range-fetched from the store each time.
func (b *BlobCache) SetVideo(id int64, data []byte) {
	if int64(len(data)) > b.maxVideoBytes {
		return
	}
	b.videos.Set(id, data, ttlcache.DefaultTTL)
}
