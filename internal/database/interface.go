package database

import (
	"database/sql"
	"errors"
)

// Error taxonomy of the store. The responder is the only place these get
// turned into HTTP statuses.
var (
	ErrNotFound         = errors.New("blob not found")
	ErrOutOfRange       = errors.New("range start beyond blob size")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// VideoMeta is the catalog lookup result for one stored video. Size is
// derived from the blob column, not stored redundantly.
type VideoMeta struct {
	ID          int64
	Name        string `db:"video_name"`
	Author      string
	ContentType string `db:"content_type"`
	Size        int64
	Duration    int64
	CreatedAt   int64 `db:"created_at"`
}

// NewVideo carries everything a single upload transaction writes.
type NewVideo struct {
	Name        string
	Author      string
	ContentType string
	Duration    int64
	CreatedAt   int64
	Data        []byte
	Thumbnail   []byte
}

type ViewKey struct {
	VideoID int64
	UserID  string
}

type Database interface {
	BeginTransaction() (*sql.Tx, error)

	GetVideoMeta(id int64) (VideoMeta, error)
	// GetVideoBlob returns the whole stored object.
	GetVideoBlob(id int64) ([]byte, error)
	// GetVideoRange returns exactly end-start+1 bytes of the stored object,
	// offsets inclusive. ErrOutOfRange when start is at or past the end.
	GetVideoRange(id int64, start int64, end int64) ([]byte, error)
	GetThumbnail(id int64) ([]byte, error)

	// AddVideo writes bytes, thumbnail and metadata inside the given
	// transaction; nothing is visible until the caller commits.
	AddVideo(tx *sql.Tx, video NewVideo) (int64, error)

	ListVideos() ([]VideoMeta, error)

	AddView(videoID int64, userID string, viewedAt int64) error
	HasRecentView(videoID int64, userID string, since int64) (bool, error)
	CountViews(videoID int64) (int64, error)
	RecentViews(since int64) ([]ViewKey, error)
}
