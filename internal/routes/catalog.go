package routes

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"vodserver/external/vod"
	"vodserver/internal/core"
	"vodserver/internal/database"
	"vodserver/internal/utils"
)

// CatalogRoutes wires the listing/details surface and view recording.
// Viewer identity comes from the X-User header when an upstream auth layer
// sets one, else the client IP (the auth layer itself is external).
func CatalogRoutes(r *gin.Engine, db database.Database, recorder *core.ViewRecorder) {
	r.GET("/videos", func(c *gin.Context) {
		videos, err := db.ListVideos()
		if err != nil {
			log.Printf("db.ListVideos() %+v", err)
			c.JSON(500, vod.NotifMessage{Message: "store error"})
			return
		}

		summaries := make([]vod.VideoSummary, 0, len(videos))
		for _, v := range videos {
			summaries = append(summaries, vod.VideoSummary{
				ID:       v.ID,
				Name:     v.Name,
				Author:   v.Author,
				Duration: utils.FormatDuration(v.Duration),
			})
		}

		c.JSON(200, summaries)
	})

	r.GET("/video/details/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(404, vod.NotifMessage{Message: "video not found"})
			return
		}

		meta, err := db.GetVideoMeta(id)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(404, vod.NotifMessage{Message: "video not found"})
				return
			}
			log.Printf("db.GetVideoMeta(id) %+v", err)
			c.JSON(500, vod.NotifMessage{Message: "store error"})
			return
		}

		views, err := db.CountViews(id)
		if err != nil {
			log.Printf("db.CountViews(id) %+v", err)
			c.JSON(500, vod.NotifMessage{Message: "store error"})
			return
		}

		c.JSON(200, vod.VideoDetails{
			ID:         meta.ID,
			Name:       meta.Name,
			Author:     meta.Author,
			Views:      views,
			UploadedAt: utils.FormatDate(meta.CreatedAt),
		})
	})

	r.POST("/api/video/record-view/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(404, vod.NotifMessage{Message: "video not found"})
			return
		}

		userID := c.GetHeader("X-User")
		if userID == "" {
			userID = c.ClientIP()
		}

		views, err := recorder.Record(id, userID)
		if err != nil {
			log.Printf("recorder.Record(id, userID) %+v", err)
			c.JSON(500, vod.NotifMessage{Message: "store error"})
			return
		}

		c.JSON(200, vod.ViewCount{Views: views})
	})
}
