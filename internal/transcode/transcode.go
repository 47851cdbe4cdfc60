// Package transcode is the boundary to the external media tooling. The
// core only depends on the result contract: video bytes in, duration and
// thumbnail bytes out.
package transcode

type Result struct {
	DurationSeconds int64
	Thumbnail       []byte
}

type Prober interface {
	Probe(video []byte) (Result, error)
}
