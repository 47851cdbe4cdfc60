package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const EmbedMigrations = "migrations"

type SqliteDB struct {
	Db *sql.DB
}

// storeErr folds driver errors into the store taxonomy. A missing row is
// ErrNotFound, anything else is the store being unavailable.
func storeErr(call string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s. %w", call, ErrNotFound)
	}
	return fmt.Errorf("%s. %w. %w", call, ErrStoreUnavailable, err)
}

func (sq SqliteDB) BeginTransaction() (*sql.Tx, error) {
	tx, err := sq.Db.Begin()
	if err != nil {
		return nil, fmt.Errorf("sq.Db.Begin(). %w. %w", ErrStoreUnavailable, err)
	}

	return tx, nil
}

func (sq SqliteDB) GetVideoMeta(id int64) (VideoMeta, error) {
	meta := VideoMeta{ID: id}

	stmt, err := sq.Db.Prepare(`SELECT video_name, author, content_type, length(video_data), duration, created_at
        FROM videos WHERE id = ?`)
	if err != nil {
		return meta, storeErr("sq.Db.Prepare()", err)
	}
	defer stmt.Close()

	err = stmt.QueryRow(id).Scan(&meta.Name, &meta.Author, &meta.ContentType, &meta.Size, &meta.Duration, &meta.CreatedAt)
	if err != nil {
		return meta, storeErr("stmt.QueryRow(id).Scan", err)
	}

	return meta, nil
}

func (sq SqliteDB) GetVideoBlob(id int64) ([]byte, error) {
	var data []byte

	stmt, err := sq.Db.Prepare("SELECT video_data FROM videos WHERE id = ?")
	if err != nil {
		return nil, storeErr("sq.Db.Prepare()", err)
	}
	defer stmt.Close()

	err = stmt.QueryRow(id).Scan(&data)
	if err != nil {
		return nil, storeErr("stmt.QueryRow(id).Scan", err)
	}

	return data, nil
}

// GetVideoRange reads only the requested window out of the blob column.
// substr is 1-based, offsets here are 0-based inclusive.
func (sq SqliteDB) GetVideoRange(id int64, start int64, end int64) ([]byte, error) {
	var size int64
	var chunk []byte

	stmt, err := sq.Db.Prepare("SELECT length(video_data), substr(video_data, ?, ?) FROM videos WHERE id = ?")
	if err != nil {
		return nil, storeErr("sq.Db.Prepare()", err)
	}
	defer stmt.Close()

	want := end - start + 1
	err = stmt.QueryRow(start+1, want, id).Scan(&size, &chunk)
	if err != nil {
		return nil, storeErr("stmt.QueryRow(start+1, want, id).Scan", err)
	}

	if start >= size {
		return nil, fmt.Errorf("start %d beyond size %d. %w", start, size, ErrOutOfRange)
	}
	if int64(len(chunk)) != want {
		return nil, fmt.Errorf("truncated range read, got %d want %d. %w", len(chunk), want, ErrStoreUnavailable)
	}

	return chunk, nil
}

func (sq SqliteDB) GetThumbnail(id int64) ([]byte, error) {
	var data []byte

	stmt, err := sq.Db.Prepare("SELECT thumbnail FROM videos WHERE id = ? AND thumbnail IS NOT NULL")
	if err != nil {
		return nil, storeErr("sq.Db.Prepare()", err)
	}
	defer stmt.Close()

	err = stmt.QueryRow(id).Scan(&data)
	if err != nil {
		return nil, storeErr("stmt.QueryRow(id).Scan", err)
	}

	return data, nil
}

func (sq SqliteDB) AddVideo(tx *sql.Tx, video NewVideo) (int64, error) {
	res, err := tx.Exec(`INSERT INTO videos (video_name, author, content_type, duration, created_at, video_data, thumbnail)
        values (?, ?, ?, ?, ?, ?, ?)`,
		video.Name, video.Author, video.ContentType, video.Duration, video.CreatedAt, video.Data, video.Thumbnail,
	)
	if err != nil {
		return 0, fmt.Errorf(`tx.Exec("INSERT INTO videos"). %w`, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("res.LastInsertId(). %w", err)
	}

	return id, nil
}

func (sq SqliteDB) ListVideos() ([]VideoMeta, error) {
	stmt, err := sq.Db.Prepare(`SELECT id, video_name, author, content_type, length(video_data), duration, created_at
        FROM videos ORDER BY id DESC`)
	if err != nil {
		return nil, storeErr("sq.Db.Prepare()", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, storeErr("stmt.Query()", err)
	}
	defer rows.Close()

	var videos []VideoMeta
	for rows.Next() {
		var m VideoMeta
		err = rows.Scan(&m.ID, &m.Name, &m.Author, &m.ContentType, &m.Size, &m.Duration, &m.CreatedAt)
		if err != nil {
			return nil, storeErr("rows.Scan(&m.ID, ...)", err)
		}

		videos = append(videos, m)
	}

	return videos, nil
}

func (sq SqliteDB) AddView(videoID int64, userID string, viewedAt int64) error {
	_, err := sq.Db.Exec("INSERT INTO video_views (video_id, user_id, view_date) values (?, ?, ?)",
		videoID, userID, viewedAt,
	)
	if err != nil {
		return storeErr(`sq.Db.Exec("INSERT INTO video_views")`, err)
	}

	return nil
}

func (sq SqliteDB) HasRecentView(videoID int64, userID string, since int64) (bool, error) {
	var one int

	err := sq.Db.QueryRow("SELECT 1 FROM video_views WHERE video_id = ? AND user_id = ? AND view_date > ? LIMIT 1",
		videoID, userID, since,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("sq.Db.QueryRow(videoID, userID, since).Scan", err)
	}

	return true, nil
}

func (sq SqliteDB) CountViews(videoID int64) (int64, error) {
	var count int64

	err := sq.Db.QueryRow("SELECT COUNT(DISTINCT user_id) FROM video_views WHERE video_id = ?", videoID).Scan(&count)
	if err != nil {
		return 0, storeErr("sq.Db.QueryRow(videoID).Scan", err)
	}

	return count, nil
}

func (sq SqliteDB) RecentViews(since int64) ([]ViewKey, error) {
	rows, err := sq.Db.Query("SELECT video_id, user_id FROM video_views WHERE view_date > ?", since)
	if err != nil {
		return nil, storeErr("sq.Db.Query(since)", err)
	}
	defer rows.Close()

	var keys []ViewKey
	for rows.Next() {
		var k ViewKey
		err = rows.Scan(&k.VideoID, &k.UserID)
		if err != nil {
			return nil, storeErr("rows.Scan(&k.VideoID, &k.UserID)", err)
		}

		keys = append(keys, k)
	}

	return keys, nil
}

func DatabaseSetup(ctx context.Context, databaseDir string, migrationDir string) (SqliteDB, error) {
	var sqlitedb SqliteDB

	db, err := sql.Open("sqlite3", databaseDir+"/"+"app.db")
	if err != nil {
		return sqlitedb, fmt.Errorf(`sql.Open("sqlite3", databaseDir + "app.db"). %w`, err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatalf("Error setting dialect: %v", err)
	}

	if err := goose.Up(db, migrationDir); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	sqlitedb.Db = db

	return sqlitedb, nil
}
