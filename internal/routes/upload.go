package routes

import (
	"log"

	"github.com/gin-gonic/gin"

	"vodserver/internal/core"
	"vodserver/internal/database"
	"vodserver/internal/transcode"
)

func UploadRoutes(r *gin.Engine, db database.Database, prober transcode.Prober, domain string) {
	r.POST("/upload", func(c *gin.Context) {
		err := core.WriteVideo(c, db, prober, domain)
		if err != nil {
			log.Printf("core.WriteVideo(). %+v", err)
		}
	})
}
