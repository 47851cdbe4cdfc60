package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) SqliteDB {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	sqlite, err := DatabaseSetup(ctx, dir, EmbedMigrations)
	if err != nil {
		t.Fatalf("Could not setup db. %+v", err)
	}
	t.Cleanup(func() { sqlite.Db.Close() })
	return sqlite
}

func testPayload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func addTestVideo(t *testing.T, sqlite SqliteDB, video NewVideo) int64 {
	t.Helper()
	tx, err := sqlite.BeginTransaction()
	if err != nil {
		t.Fatalf("sqlite.BeginTransaction() %+v", err)
	}
	id, err := sqlite.AddVideo(tx, video)
	if err != nil {
		t.Fatalf("sqlite.AddVideo() %+v", err)
	}
	err = tx.Commit()
	if err != nil {
		t.Fatalf("tx.Commit() %+v", err)
	}
	return id
}

func TestAddVideoAndGetMeta(t *testing.T) {
	sqlite := setupTestDB(t)

	now := time.Now().Unix()
	id := addTestVideo(t, sqlite, NewVideo{
		Name:        "clip one",
		Author:      "alice",
		ContentType: "video/mp4",
		Duration:    95,
		CreatedAt:   now,
		Data:        testPayload(1000),
		Thumbnail:   []byte("png-bytes"),
	})

	meta, err := sqlite.GetVideoMeta(id)
	if err != nil {
		t.Fatalf("sqlite.GetVideoMeta(id) %+v", err)
	}
	if meta.Name != "clip one" {
		t.Errorf("wrong name. got: %v", meta.Name)
	}
	if meta.Size != 1000 {
		t.Errorf("size should derive from blob length. got: %v", meta.Size)
	}
	if meta.Duration != 95 {
		t.Errorf("wrong duration. got: %v", meta.Duration)
	}

	_, err = sqlite.GetVideoMeta(id + 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id should be ErrNotFound. got: %+v", err)
	}
}

func TestGetVideoRange(t *testing.T) {
	sqlite := setupTestDB(t)

	payload := testPayload(1000)
	id := addTestVideo(t, sqlite, NewVideo{
		Name: "clip", Author: "bob", ContentType: "video/mp4",
		CreatedAt: time.Now().Unix(), Data: payload,
	})

	cases := []struct{ start, end int64 }{
		{0, 0},
		{0, 199},
		{500, 999},
		{999, 999},
		{250, 250},
	}
	for _, c := range cases {
		chunk, err := sqlite.GetVideoRange(id, c.start, c.end)
		if err != nil {
			t.Fatalf("sqlite.GetVideoRange(%d, %d) %+v", c.start, c.end, err)
		}
		if int64(len(chunk)) != c.end-c.start+1 {
			t.Errorf("range %d-%d: wrong length %d", c.start, c.end, len(chunk))
		}
		if !bytes.Equal(chunk, payload[c.start:c.end+1]) {
			t.Errorf("range %d-%d: wrong bytes", c.start, c.end)
		}
	}

	_, err := sqlite.GetVideoRange(id, 1000, 1001)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("start at size should be ErrOutOfRange. got: %+v", err)
	}

	_, err = sqlite.GetVideoRange(id+999, 0, 10)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id should be ErrNotFound. got: %+v", err)
	}

	full, err := sqlite.GetVideoBlob(id)
	if err != nil {
		t.Fatalf("sqlite.GetVideoBlob(id) %+v", err)
	}
	if !bytes.Equal(full, payload) {
		t.Errorf("full blob differs from payload")
	}
}

func TestUploadRollbackLeavesNothing(t *testing.T) {
	sqlite := setupTestDB(t)

	tx, err := sqlite.BeginTransaction()
	if err != nil {
		t.Fatalf("sqlite.BeginTransaction() %+v", err)
	}
	id, err := sqlite.AddVideo(tx, NewVideo{
		Name: "ghost", Author: "carol", ContentType: "video/mp4",
		CreatedAt: time.Now().Unix(), Data: testPayload(64),
	})
	if err != nil {
		t.Fatalf("sqlite.AddVideo() %+v", err)
	}
	err = tx.Rollback()
	if err != nil {
		t.Fatalf("tx.Rollback() %+v", err)
	}

	// Neither metadata nor bytes may be visible after rollback.
	_, err = sqlite.GetVideoMeta(id)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("metadata visible after rollback. got: %+v", err)
	}
	_, err = sqlite.GetVideoBlob(id)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("bytes visible after rollback. got: %+v", err)
	}
}

func TestGetThumbnail(t *testing.T) {
	sqlite := setupTestDB(t)

	withThumb := addTestVideo(t, sqlite, NewVideo{
		Name: "a", Author: "a", ContentType: "video/mp4",
		CreatedAt: time.Now().Unix(), Data: testPayload(10), Thumbnail: []byte("thumb"),
	})
	withoutThumb := addTestVideo(t, sqlite, NewVideo{
		Name: "b", Author: "b", ContentType: "video/mp4",
		CreatedAt: time.Now().Unix(), Data: testPayload(10),
	})

	thumb, err := sqlite.GetThumbnail(withThumb)
	if err != nil {
		t.Fatalf("sqlite.GetThumbnail() %+v", err)
	}
	if !bytes.Equal(thumb, []byte("thumb")) {
		t.Errorf("wrong thumbnail bytes. got: %v", thumb)
	}

	_, err = sqlite.GetThumbnail(withoutThumb)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing thumbnail should be ErrNotFound. got: %+v", err)
	}
}

func TestListVideos(t *testing.T) {
	sqlite := setupTestDB(t)

	first := addTestVideo(t, sqlite, NewVideo{
		Name: "first", Author: "a", ContentType: "video/mp4",
		CreatedAt: time.Now().Unix(), Data: testPayload(5),
	})
	second := addTestVideo(t, sqlite, NewVideo{
		Name: "second", Author: "b", ContentType: "video/mp4",
		CreatedAt: time.Now().Unix(), Data: testPayload(7),
	})

	videos, err := sqlite.ListVideos()
	if err != nil {
		t.Fatalf("sqlite.ListVideos() %+v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("should list 2 videos. got: %v", len(videos))
	}
	// newest first
	if videos[0].ID != second || videos[1].ID != first {
		t.Errorf("wrong ordering: %v then %v", videos[0].ID, videos[1].ID)
	}
	if videos[0].Size != 7 {
		t.Errorf("wrong size on listing. got: %v", videos[0].Size)
	}
}

func TestViews(t *testing.T) {
	sqlite := setupTestDB(t)

	id := addTestVideo(t, sqlite, NewVideo{
		Name: "watched", Author: "a", ContentType: "video/mp4",
		CreatedAt: time.Now().Unix(), Data: testPayload(5),
	})

	now := time.Now().Unix()
	dayAgo := now - 24*3600

	seen, err := sqlite.HasRecentView(id, "viewer1", dayAgo)
	if err != nil {
		t.Fatalf("sqlite.HasRecentView() %+v", err)
	}
	if seen {
		t.Errorf("no view recorded yet")
	}

	if err := sqlite.AddView(id, "viewer1", now); err != nil {
		t.Fatalf("sqlite.AddView() %+v", err)
	}
	if err := sqlite.AddView(id, "viewer1", now); err != nil {
		t.Fatalf("sqlite.AddView() %+v", err)
	}
	if err := sqlite.AddView(id, "viewer2", now); err != nil {
		t.Fatalf("sqlite.AddView() %+v", err)
	}

	seen, err = sqlite.HasRecentView(id, "viewer1", dayAgo)
	if err != nil {
		t.Fatalf("sqlite.HasRecentView() %+v", err)
	}
	if !seen {
		t.Errorf("view should be visible inside the window")
	}

	count, err := sqlite.CountViews(id)
	if err != nil {
		t.Fatalf("sqlite.CountViews() %+v", err)
	}
	if count != 2 {
		t.Errorf("distinct viewers should be 2. got: %v", count)
	}

	keys, err := sqlite.RecentViews(dayAgo)
	if err != nil {
		t.Fatalf("sqlite.RecentViews() %+v", err)
	}
	if len(keys) != 3 {
		t.Errorf("should return all rows in window. got: %v", len(keys))
	}
}
