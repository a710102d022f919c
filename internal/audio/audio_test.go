package audio

import (
	"errors"
	"testing"

	sonoraErrors "sonora-backend/internal/errors"
)

func TestAnalyzeRejectsNonAudio(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain text", []byte("definitely not an mp3")},
		{"json", []byte(`{"name":"song"}`)},
		{"png header", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Analyze(tc.data); !errors.Is(err, sonoraErrors.ErrBadParameter) {
				t.Errorf("Analyze error = %v, want ErrBadParameter", err)
			}
		})
	}
}

func TestAnalyzeAcceptsMpegAudio(t *testing.T) {
	// An MPEG-1 layer III frame sync followed by filler. The duration of
	// whatever decodes cleanly is returned; a short payload rounds to 0.
	payload := make([]byte, 4096)
	copy(payload, []byte{0xFF, 0xFB, 0x90, 0x00})

	seconds, err := Analyze(payload)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if seconds < 0 {
		t.Errorf("seconds = %d, want non-negative", seconds)
	}
}
