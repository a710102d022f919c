// Package audio analyzes uploaded song payloads.

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	sonoraErrors "sonora-backend/internal/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tcolgate/mp3"
)

const mpegAudioMIME = "audio/mpeg"

// Analyze verifies that the payload is MPEG audio and derives its
// duration in whole seconds by walking the frames.
func Analyze(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty audio payload", sonoraErrors.ErrBadParameter)
	}

	detected := mimetype.Detect(data)
	if !detected.Is(mpegAudioMIME) {
		return 0, fmt.Errorf("%w: expected %s, got %s", sonoraErrors.ErrBadParameter, mpegAudioMIME, detected.String())
	}

	var total time.Duration
	decoder := mp3.NewDecoder(bytes.NewReader(data))
	var frame mp3.Frame
	skipped := 0
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			// Trailing garbage after valid frames is tolerated; the
			// duration of what decoded cleanly is kept.
			break
		}
		total += frame.Duration()
	}

	return int(math.Round(total.Seconds())), nil
}
