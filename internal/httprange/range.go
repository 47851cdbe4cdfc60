// Package httprange parses the subset of HTTP Range headers the streaming
// service accepts: a single bytes=<start>-<end>? range. Suffix ranges and
// multi-range lists are rejected rather than coerced.
package httprange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotSatisfiable covers both malformed headers and out-of-bounds starts;
// either way the answer on the wire is 416.
var ErrNotSatisfiable = errors.New("range not satisfiable")

// DefaultChunkSize bounds how much an open-ended range request serves in
// one response. Clients pipeline follow-up range requests for the rest.
const DefaultChunkSize int64 = 1 << 20

// Interval is an inclusive byte range, 0 <= Start <= End < size.
type Interval struct {
	Start int64
	End   int64
}

func (iv Interval) Length() int64 {
	return iv.End - iv.Start + 1
}

// Parse computes the serving interval for an object of the given size.
//
// An empty header means the whole object: [0, size-1]. The caller still
// decides the status code by header presence (absent => 200, present =>
// 206). An open-ended range is windowed to chunk bytes; an explicit end is
// clamped to size-1 and the clamped value is what goes into Content-Range.
func Parse(header string, size int64, chunk int64) (Interval, error) {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	if header == "" {
		return Interval{Start: 0, End: size - 1}, nil
	}

	spec, found := strings.CutPrefix(header, "bytes=")
	if !found {
		return Interval{}, fmt.Errorf("header %q lacks bytes= prefix. %w", header, ErrNotSatisfiable)
	}
	if strings.Contains(spec, ",") {
		return Interval{}, fmt.Errorf("multi-range %q not supported. %w", header, ErrNotSatisfiable)
	}

	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return Interval{}, fmt.Errorf("header %q lacks range separator. %w", header, ErrNotSatisfiable)
	}

	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("bad range start %q. %w", startStr, ErrNotSatisfiable)
	}
	if start < 0 || start >= size {
		return Interval{}, fmt.Errorf("start %d outside object of size %d. %w", start, size, ErrNotSatisfiable)
	}

	var end int64
	endStr = strings.TrimSpace(endStr)
	if endStr == "" {
		end = start + chunk - 1
	} else {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return Interval{}, fmt.Errorf("bad range end %q. %w", endStr, ErrNotSatisfiable)
		}
	}

	if end < start {
		return Interval{}, fmt.Errorf("end %d before start %d. %w", end, start, ErrNotSatisfiable)
	}
	// Never reflect a client end past the object boundary.
	if end > size-1 {
		end = size - 1
	}

	return Interval{Start: start, End: end}, nil
}

// ContentRange renders the Content-Range value for a 206 response.
func ContentRange(iv Interval, size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", iv.Start, iv.End, size)
}

// ContentRangeUnsatisfiable renders the Content-Range value a 416 carries.
func ContentRangeUnsatisfiable(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}
