package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"vodserver/internal/database"
)

// ViewDedupWindow is how long a (video, viewer) pair counts as one view.
const ViewDedupWindow = 24 * time.Hour

// ViewRecorder counts distinct viewers. A bloom filter sits in front of
// the store so repeat views skip the existence query; a false positive
// only drops a view increment, which is acceptable for display counts.
type ViewRecorder struct {
	db     database.Database
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// NewViewRecorder prewarms the filter from rows inside the dedup window.
func NewViewRecorder(db database.Database) (*ViewRecorder, error) {
	filter := bloom.NewWithEstimates(1_000_000, 0.01)

	since := time.Now().Add(-ViewDedupWindow).Unix()
	keys, err := db.RecentViews(since)
	if err != nil {
		return nil, fmt.Errorf("db.RecentViews(since). %w", err)
	}
	for _, k := range keys {
		filter.Add(viewKey(k.VideoID, k.UserID))
	}

	return &ViewRecorder{
		db:     db,
		filter: filter,
	}, nil
}

func viewKey(videoID int64, userID string) []byte {
	return []byte(fmt.Sprintf("%d|%s", videoID, userID))
}

// Record registers a view for the pair if it is new inside the window and
// returns the distinct-viewer count either way.
func (v *ViewRecorder) Record(videoID int64, userID string) (int64, error) {
	key := viewKey(videoID, userID)

	v.mu.Lock()
	seen := v.filter.TestOrAdd(key)
	v.mu.Unlock()

	if !seen {
		since := time.Now().Add(-ViewDedupWindow).Unix()
		recent, err := v.db.HasRecentView(videoID, userID, since)
		if err != nil {
			return 0, fmt.Errorf("v.db.HasRecentView(videoID, userID, since). %w", err)
		}
		if !recent {
			err = v.db.AddView(videoID, userID, time.Now().Unix())
			if err != nil {
				return 0, fmt.Errorf("v.db.AddView(videoID, userID). %w", err)
			}
		}
	}

	count, err := v.db.CountViews(videoID)
	if err != nil {
		return 0, fmt.Errorf("v.db.CountViews(videoID). %w", err)
	}

	return count, nil
}
