package routes

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vodserver/external/vod"
	"vodserver/internal/core"
)

// RootRoutes wires the byte-serving surface: ranged blob GETs, the HEAD
// variant, and cached thumbnails.
func RootRoutes(r *gin.Engine, service *core.StreamService) {
	r.GET("/blob/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(404, vod.NotifMessage{Message: "video not found"})
			return
		}

		service.ServeVideo(c, id)
	})

	r.HEAD("/blob/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.Status(404)
			return
		}

		service.ServeVideoHead(c, id)
	})

	r.GET("/thumbnail/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(404, vod.NotifMessage{Message: "thumbnail not found"})
			return
		}

		service.ServeThumbnail(c, id)
	})
}
