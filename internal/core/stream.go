package core

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"vodserver/external/vod"
	"vodserver/internal/database"
	"vodserver/internal/httprange"
)

// ServeVideo walks one request through resolve metadata -> parse range ->
// fetch bytes -> emit. No header means a 200 with the full object; any
// Range header means a 206, even when the interval covers everything.
func (s *StreamService) ServeVideo(c *gin.Context, id int64) {
	meta, err := s.DB.GetVideoMeta(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(404, vod.NotifMessage{Message: "video not found"})
			return
		}
		log.Printf("s.DB.GetVideoMeta(id) %+v", err)
		c.JSON(500, vod.NotifMessage{Message: "store error"})
		return
	}

	rangeHeader := c.GetHeader("Range")

	interval, err := httprange.Parse(rangeHeader, meta.Size, s.ChunkSize)
	if err != nil {
		c.Header("Content-Range", httprange.ContentRangeUnsatisfiable(meta.Size))
		c.JSON(416, vod.NotifMessage{Message: "range not satisfiable"})
		return
	}

	payload, err := s.fetchInterval(id, meta.Size, rangeHeader == "", interval)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			c.JSON(404, vod.NotifMessage{Message: "video not found"})
		case errors.Is(err, database.ErrOutOfRange):
			c.Header("Content-Range", httprange.ContentRangeUnsatisfiable(meta.Size))
			c.JSON(416, vod.NotifMessage{Message: "range not satisfiable"})
		default:
			log.Printf("s.fetchInterval(id, interval) %+v", err)
			c.JSON(500, vod.NotifMessage{Message: "store error"})
		}
		return
	}

	// A short read must never masquerade as success.
	if int64(len(payload)) != interval.Length() {
		log.Printf("short read for id %d: got %d want %d", id, len(payload), interval.Length())
		c.JSON(500, vod.NotifMessage{Message: "store error"})
		return
	}

	status := 200
	if rangeHeader != "" {
		status = 206
		c.Header("Content-Range", httprange.ContentRange(interval, meta.Size))
	}

	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Length", strconv.FormatInt(interval.Length(), 10))
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", meta.Name))
	c.Data(status, meta.ContentType, payload)
}

// fetchInterval consults the small-whole-video cache first. Cached entries
// are keyed by object only; a range hit slices the cached whole object.
// On a miss the store fetch is scoped to the requested window.
func (s *StreamService) fetchInterval(id int64, size int64, whole bool, interval httprange.Interval) ([]byte, error) {
	if cached, ok := s.Cache.GetVideo(id); ok && int64(len(cached)) == size {
		if whole {
			return cached, nil
		}
		return cached[interval.Start : interval.End+1], nil
	}

	if whole {
		data, err := s.DB.GetVideoBlob(id)
		if err != nil {
			return nil, fmt.Errorf("s.DB.GetVideoBlob(id). %w", err)
		}
		s.Cache.SetVideo(id, data)
		return data, nil
	}

	data, err := s.DB.GetVideoRange(id, interval.Start, interval.End)
	if err != nil {
		return nil, fmt.Errorf("s.DB.GetVideoRange(id, start, end). %w", err)
	}
	return data, nil
}

// ServeVideoHead answers the headers a ranged GET would carry, body-less.
func (s *StreamService) ServeVideoHead(c *gin.Context, id int64) {
	meta, err := s.DB.GetVideoMeta(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.Status(404)
			return
		}
		log.Printf("s.DB.GetVideoMeta(id) %+v", err)
		c.Status(500)
		return
	}

	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Length", strconv.FormatInt(meta.Size, 10))
	c.Header("Content-Type", meta.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", meta.Name))
	c.Status(200)
}

func (s *StreamService) ServeThumbnail(c *gin.Context, id int64) {
	if cached, ok := s.Cache.GetThumbnail(id); ok {
		c.Header("Cache-Control", "public, max-age=600")
		c.Data(200, "image/png", cached)
		return
	}

	data, err := s.DB.GetThumbnail(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(404, vod.NotifMessage{Message: "thumbnail not found"})
			return
		}
		log.Printf("s.DB.GetThumbnail(id) %+v", err)
		c.JSON(500, vod.NotifMessage{Message: "store error"})
		return
	}

	s.Cache.SetThumbnail(id, data)
	c.Header("Cache-Control", "public, max-age=600")
	c.Data(200, "image/png", data)
}
