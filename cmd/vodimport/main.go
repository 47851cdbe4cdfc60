// vodimport pushes a local video file through the same probe-and-store
// pipeline the upload route uses, without going over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"

	"vodserver/internal/database"
	"vodserver/internal/transcode"
	"vodserver/internal/utils"
)

func main() {
	fs := flag.NewFlagSet("vodimport", flag.ExitOnError)
	var (
		filePath    = fs.String("file", "", "video file to import")
		name        = fs.String("name", "", "display name (defaults to the file name)")
		author      = fs.String("author", "importer", "author to record")
		contentType = fs.String("content-type", "video/mp4", "stored content type")
	)

	_ = godotenv.Load()

	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("VOD"))
	if err != nil {
		log.Panicf("ff.Parse(fs, os.Args[1:]). %+v", err)
	}

	if *filePath == "" {
		fs.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Panicf("os.ReadFile(*filePath). %+v", err)
	}

	displayName := *name
	if displayName == "" {
		displayName = filepath.Base(*filePath)
	}

	homeDir, err := utils.GetVodserverHomeDirectory()
	if err != nil {
		log.Panicf("utils.GetVodserverHomeDirectory(). %+v", err)
	}

	sqlite, err := database.DatabaseSetup(context.Background(), homeDir, database.EmbedMigrations)
	if err != nil {
		log.Panicf("database.DatabaseSetup(ctx, homeDir, migrations). %+v", err)
	}
	defer sqlite.Db.Close()

	prober := transcode.NewFFmpegProber()
	probed, err := prober.Probe(data)
	if err != nil {
		log.Panicf("prober.Probe(data). %+v", err)
	}

	tx, err := sqlite.BeginTransaction()
	if err != nil {
		log.Panicf("sqlite.BeginTransaction(). %+v", err)
	}

	id, err := sqlite.AddVideo(tx, database.NewVideo{
		Name:        displayName,
		Author:      *author,
		ContentType: *contentType,
		Duration:    probed.DurationSeconds,
		CreatedAt:   time.Now().Unix(),
		Data:        data,
		Thumbnail:   probed.Thumbnail,
	})
	if err != nil {
		tx.Rollback()
		log.Panicf("sqlite.AddVideo(tx, video). %+v", err)
	}

	err = tx.Commit()
	if err != nil {
		log.Panicf("tx.Commit(). %+v", err)
	}

	fmt.Printf("imported %s as video %d (%d bytes, %s)\n",
		displayName, id, len(data), utils.FormatDuration(probed.DurationSeconds))
}
