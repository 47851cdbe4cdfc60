package core

import (
	"vodserver/internal/cache"
	"vodserver/internal/database"
)

// StreamService owns the store handle and the shared read-through cache.
// Constructed once at startup and injected into the routes.
type StreamService struct {
	DB        database.Database
	Cache     *cache.BlobCache
	ChunkSize int64
}

func NewStreamService(db database.Database, blobCache *cache.BlobCache, chunkSize int64) *StreamService {
	return &StreamService{
		DB:        db,
		Cache:     blobCache,
		ChunkSize: chunkSize,
	}
}
