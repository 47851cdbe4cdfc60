package utils

import (
	"fmt"
	"os"
)

const VodserverDir = ".vodserver"

const (
	DOMAIN       = "VOD_DOMAIN"
	PORT         = "PORT"
	CHUNK_SIZE   = "VOD_CHUNK_SIZE"
	FFMPEG_PATH  = "FFMPEG_PATH"
	FFPROBE_PATH = "FFPROBE_PATH"
)

func GetVodserverHomeDirectory() (string, error) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("os.UserHomeDir(). %w", err)
	}

	vodDir := homedir + "/" + VodserverDir
	err = MakeSureDirExists(vodDir)
	if err != nil {
		return "", fmt.Errorf("MakeSureDirExists(vodDir). %w", err)
	}

	return vodDir, nil
}

func MakeSureDirExists(dirPath string) error {
	_, err := os.Stat(dirPath)

	if os.IsNotExist(err) {
		err = os.MkdirAll(dirPath, 0764)
		if err != nil {
			return fmt.Errorf("os.MkdirAll(dirPath, 0764) %w", err)
		}
	}

	return nil
}
