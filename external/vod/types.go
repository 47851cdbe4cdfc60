package vod

type NotifMessage struct {
	Message string `json:"message"`
}

// VideoSummary is the catalog listing entry. Duration is already
// human-formatted (m:ss or h:mm:ss) for display.
type VideoSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"video_name"`
	Author   string `json:"author"`
	Duration string `json:"video_length"`
}

type VideoDetails struct {
	ID         int64  `json:"id"`
	Name       string `json:"video_name"`
	Author     string `json:"author"`
	Views      int64  `json:"views"`
	UploadedAt string `json:"formatted_date"`
}

// VideoDescriptor is returned after a successful upload.
type VideoDescriptor struct {
	ID       int64  `json:"id"`
	Url      string `json:"url"`
	Name     string `json:"video_name"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	Duration int64  `json:"duration"`
}

type ViewCount struct {
	Views int64 `json:"views"`
}
