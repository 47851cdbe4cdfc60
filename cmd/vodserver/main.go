package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"vodserver/internal/cache"
	"vodserver/internal/core"
	"vodserver/internal/database"
	"vodserver/internal/httprange"
	"vodserver/internal/routes"
	"vodserver/internal/transcode"
	"vodserver/internal/utils"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	homeDir, err := utils.GetVodserverHomeDirectory()
	if err != nil {
		log.Panicf("utils.GetVodserverHomeDirectory(). %+v", err)
	}

	log.Println("Current home dir: ", homeDir)

	sqlite, err := database.DatabaseSetup(ctx, homeDir, database.EmbedMigrations)
	if err != nil {
		log.Panicf("database.DatabaseSetup(ctx, homeDir, migrations). %+v", err)
	}
	defer sqlite.Db.Close()

	chunkSize := httprange.DefaultChunkSize
	if chunkStr := os.Getenv(utils.CHUNK_SIZE); chunkStr != "" {
		chunkSize, err = strconv.ParseInt(chunkStr, 10, 64)
		if err != nil || chunkSize <= 0 {
			log.Panicf("Could not parse %v: %q", utils.CHUNK_SIZE, chunkStr)
		}
	}

	blobCache := cache.NewDefault()
	service := core.NewStreamService(sqlite, blobCache, chunkSize)

	recorder, err := core.NewViewRecorder(sqlite)
	if err != nil {
		log.Panicf("core.NewViewRecorder(sqlite). %+v", err)
	}

	prober := transcode.NewFFmpegProber()

	port := os.Getenv(utils.PORT)
	if port == "" {
		port = "8080"
	}

	domain := os.Getenv(utils.DOMAIN)
	if domain == "" {
		domain = "http://localhost:" + port
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "*"},
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "Accept-Ranges", "*"},
		AllowCredentials: true,
	}))

	routes.RootRoutes(r, service)
	routes.CatalogRoutes(r, sqlite, recorder)
	routes.UploadRoutes(r, sqlite, prober, domain)

	log.Println("vodserver started on port " + port)
	r.Run("0.0.0.0:" + port)
}
