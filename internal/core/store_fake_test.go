package core_test

import (
	"database/sql"
	"errors"
	"fmt"

	"vodserver/internal/database"
)

// fakeStore is an in-memory database.Database with per-method call
// counters, so tests can observe when the cache absorbed a round trip.
type fakeStore struct {
	videos map[int64]database.NewVideo
	views  []database.ViewKey

	failing bool

	metaCalls  int
	blobCalls  int
	rangeCalls int
	thumbCalls int
	viewAdds   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{videos: make(map[int64]database.NewVideo)}
}

func (f *fakeStore) down() error {
	if f.failing {
		return fmt.Errorf("connection refused. %w", database.ErrStoreUnavailable)
	}
	return nil
}

func (f *fakeStore) BeginTransaction() (*sql.Tx, error) {
	return nil, errors.New("fakeStore has no transactions")
}

func (f *fakeStore) GetVideoMeta(id int64) (database.VideoMeta, error) {
	f.metaCalls++
	if err := f.down(); err != nil {
		return database.VideoMeta{}, err
	}
	v, ok := f.videos[id]
	if !ok {
		return database.VideoMeta{}, database.ErrNotFound
	}
	return database.VideoMeta{
		ID:          id,
		Name:        v.Name,
		Author:      v.Author,
		ContentType: v.ContentType,
		Size:        int64(len(v.Data)),
		Duration:    v.Duration,
		CreatedAt:   v.CreatedAt,
	}, nil
}

func (f *fakeStore) GetVideoBlob(id int64) ([]byte, error) {
	f.blobCalls++
	if err := f.down(); err != nil {
		return nil, err
	}
	v, ok := f.videos[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return v.Data, nil
}

func (f *fakeStore) GetVideoRange(id int64, start, end int64) ([]byte, error) {
	f.rangeCalls++
	if err := f.down(); err != nil {
		return nil, err
	}
	v, ok := f.videos[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if start >= int64(len(v.Data)) {
		return nil, database.ErrOutOfRange
	}
	return v.Data[start : end+1], nil
}

func (f *fakeStore) GetThumbnail(id int64) ([]byte, error) {
	f.thumbCalls++
	if err := f.down(); err != nil {
		return nil, err
	}
	v, ok := f.videos[id]
	if !ok || v.Thumbnail == nil {
		return nil, database.ErrNotFound
	}
	return v.Thumbnail, nil
}

func (f *fakeStore) AddVideo(tx *sql.Tx, video database.NewVideo) (int64, error) {
	id := int64(len(f.videos) + 1)
	f.videos[id] = video
	return id, nil
}

func (f *fakeStore) ListVideos() ([]database.VideoMeta, error) {
	if err := f.down(); err != nil {
		return nil, err
	}
	var metas []database.VideoMeta
	for id := int64(len(f.videos)); id >= 1; id-- {
		m, err := f.GetVideoMeta(id)
		if err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, nil
}

func (f *fakeStore) AddView(videoID int64, userID string, viewedAt int64) error {
	if err := f.down(); err != nil {
		return err
	}
	f.viewAdds++
	f.views = append(f.views, database.ViewKey{VideoID: videoID, UserID: userID})
	return nil
}

func (f *fakeStore) HasRecentView(videoID int64, userID string, since int64) (bool, error) {
	if err := f.down(); err != nil {
		return false, err
	}
	for _, k := range f.views {
		if k.VideoID == videoID && k.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountViews(videoID int64) (int64, error) {
	if err := f.down(); err != nil {
		return 0, err
	}
	distinct := make(map[string]bool)
	for _, k := range f.views {
		if k.VideoID == videoID {
			distinct[k.UserID] = true
		}
	}
	return int64(len(distinct)), nil
}

func (f *fakeStore) RecentViews(since int64) ([]database.ViewKey, error) {
	if err := f.down(); err != nil {
		return nil, err
	}
	return f.views, nil
}
