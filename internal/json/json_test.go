package json

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeJson(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("single object", func(t *testing.T) {
		var dst payload
		decoder := json.NewDecoder(strings.NewReader(`{"name":"alice"}`))
		if err := DecodeJson(&dst, decoder); err != nil {
			t.Fatalf("DecodeJson: %v", err)
		}
		if dst.Name != "alice" {
			t.Errorf("name = %q, want alice", dst.Name)
		}
	})

	t.Run("trailing tokens rejected", func(t *testing.T) {
		var dst payload
		decoder := json.NewDecoder(strings.NewReader(`{"name":"alice"}{"name":"bob"}`))
		if err := DecodeJson(&dst, decoder); !errors.Is(err, DecodeJSONError) {
			t.Errorf("error = %v, want DecodeJSONError", err)
		}
	})

	t.Run("malformed input rejected", func(t *testing.T) {
		var dst payload
		decoder := json.NewDecoder(strings.NewReader(`{"name":`))
		if err := DecodeJson(&dst, decoder); !errors.Is(err, DecodeJSONError) {
			t.Errorf("error = %v, want DecodeJSONError", err)
		}
	})
}

func TestEncodeJson(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := EncodeJson(rec, 201, map[string]string{"name": "alice"}); err != nil {
		t.Fatalf("EncodeJson: %v", err)
	}
	if rec.Code != 201 {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q, want application/json", got)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"name":"alice"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}
