package core

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"vodserver/external/vod"
	"vodserver/internal/database"
	"vodserver/internal/transcode"
)

// WriteVideo ingests one multipart upload: probe duration and thumbnail
// through the transcode collaborator, then land bytes, thumbnail and
// metadata in a single transaction. Nothing becomes visible on failure.
func WriteVideo(c *gin.Context, db database.Database, prober transcode.Prober, domain string) error {
	fileHeader, err := c.FormFile("videoFile")
	if err != nil {
		c.JSON(400, vod.NotifMessage{Message: "no video file uploaded"})
		return fmt.Errorf(`c.FormFile("videoFile"). %w`, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(500, vod.NotifMessage{Message: "could not read upload"})
		return fmt.Errorf("fileHeader.Open(). %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(500, vod.NotifMessage{Message: "could not read upload"})
		return fmt.Errorf("io.ReadAll(file). %w", err)
	}

	videoName := c.PostForm("videoName")
	if videoName == "" {
		videoName = fileHeader.Filename
	}
	author := c.PostForm("author")
	if author == "" {
		author = "anonymous"
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}

	probed, err := prober.Probe(data)
	if err != nil {
		c.JSON(500, vod.NotifMessage{Message: "could not probe video"})
		return fmt.Errorf("prober.Probe(data). %w", err)
	}

	tx, err := db.BeginTransaction()
	if err != nil {
		c.JSON(500, vod.NotifMessage{Message: "store error"})
		return fmt.Errorf("db.BeginTransaction(). %w", err)
	}

	// Ensure that the transaction is rolled back in case of a panic or error
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			log.Printf("Panic occurred: %v", p)
		} else if err != nil {
			log.Println("Rolling back transaction due to error.")
			tx.Rollback()
		}
	}()

	id, err := db.AddVideo(tx, database.NewVideo{
		Name:        videoName,
		Author:      author,
		ContentType: contentType,
		Duration:    probed.DurationSeconds,
		CreatedAt:   time.Now().Unix(),
		Data:        data,
		Thumbnail:   probed.Thumbnail,
	})
	if err != nil {
		c.JSON(500, vod.NotifMessage{Message: "store error"})
		return fmt.Errorf("db.AddVideo(tx, video). %w", err)
	}

	// Commit before answering: the upload is only a success once bytes and
	// metadata are visible together.
	err = tx.Commit()
	if err != nil {
		c.JSON(500, vod.NotifMessage{Message: "store error"})
		return fmt.Errorf("tx.Commit(). %w", err)
	}

	c.JSON(200, vod.VideoDescriptor{
		ID:       id,
		Url:      fmt.Sprintf("%s/blob/%d", domain, id),
		Name:     videoName,
		Size:     int64(len(data)),
		Type:     contentType,
		Duration: probed.DurationSeconds,
	})

	return nil
}
