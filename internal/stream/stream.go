// Package stream computes the byte window served for an HTTP range
// request and produces the payload as fixed-size chunks.

package stream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonoraErrors "sonora-backend/internal/errors"
)

// ChunkSize is the fixed buffer size used when producing the payload.
const ChunkSize = 64 * 1024

const rangePrefix = "bytes="

// Range is a validated, inclusive byte window into a resource.
type Range struct {
	Start int64
	End   int64
	Size  int64
}

// ResolveRange parses a raw Range header against the total resource
// length. A missing header is rejected; clients must request an explicit
// range. Every parse or bounds failure surfaces as ErrInvalidRange.
func ResolveRange(header string, length int64) (Range, error) {
	if header == "" {
		return Range{}, sonoraErrors.ErrInvalidRange
	}
	if !strings.HasPrefix(header, rangePrefix) {
		return Range{}, sonoraErrors.ErrInvalidRange
	}

	bounds := strings.SplitN(strings.TrimPrefix(header, rangePrefix), "-", 2)
	if len(bounds) != 2 {
		return Range{}, sonoraErrors.ErrInvalidRange
	}

	start := int64(0)
	if bounds[0] != "" {
		parsed, err := strconv.ParseInt(bounds[0], 10, 64)
		if err != nil {
			return Range{}, sonoraErrors.ErrInvalidRange
		}
		start = parsed
	}

	end := length - 1
	if bounds[1] != "" {
		parsed, err := strconv.ParseInt(bounds[1], 10, 64)
		if err != nil {
			return Range{}, sonoraErrors.ErrInvalidRange
		}
		end = parsed
	}

	if start < 0 || start > end || end > length-1 {
		return Range{}, sonoraErrors.ErrInvalidRange
	}

	return Range{Start: start, End: end, Size: end - start + 1}, nil
}

// Headers returns the response headers for a partial content response
// over this range.
func (r Range) Headers(length int64) http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "audio/mp3")
	headers.Set("Accept-Ranges", "bytes")
	headers.Set("Content-Encoding", "identity")
	headers.Set("Content-Length", strconv.FormatInt(r.Size, 10))
	headers.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, length))
	headers.Set("Access-Control-Expose-Headers",
		"Content-Type, Accept-Ranges, Content-Encoding, Content-Length, Content-Range")
	return headers
}

// ChunkReader lazily produces the bytes of a resolved range in
// ChunkSize pieces. It consumes its source and cannot be restarted.
type ChunkReader struct {
	src       io.Reader
	remaining int64
	buf       []byte
}

// NewChunkReader positions src at the start of the range and returns a
// reader over it. The window is capped at the resource length even if
// the range was computed beyond it.
func NewChunkReader(src io.Reader, rng Range, length int64) (*ChunkReader, error) {
	end := rng.End
	if end > length-1 {
		end = length - 1
	}
	if _, err := io.CopyN(io.Discard, src, rng.Start); err != nil {
		return nil, fmt.Errorf("Failed to seek to range start: %w", err)
	}

	return &ChunkReader{
		src:       src,
		remaining: end - rng.Start + 1,
		buf:       make([]byte, ChunkSize),
	}, nil
}

// Next returns the next chunk of at most ChunkSize bytes, or io.EOF
// once the range is exhausted. The returned slice is only valid until
// the next call.
func (c *ChunkReader) Next() ([]byte, error) {
	if c.remaining <= 0 {
		return nil, io.EOF
	}

	want := int64(len(c.buf))
	if c.remaining < want {
		want = c.remaining
	}
	n, err := io.ReadFull(c.src, c.buf[:want])
	if n > 0 {
		c.remaining -= int64(n)
		return c.buf[:n], nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return nil, io.EOF
}

// WriteTo drains the remaining chunks into w.
func (c *ChunkReader) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for {
		chunk, err := c.Next()
		if errors.Is(err, io.EOF) {
			return written, nil
		} else if err != nil {
			return written, err
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
}
