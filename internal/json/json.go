// Package for JSON utility functions

package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var DecodeJSONError = errors.New("DecodeJSONError")

// Decode a single JSON object
func DecodeJson(dst interface{}, decoder *json.Decoder) error {
	if err := decoder.Decode(dst); err != nil {
		return errors.Join(DecodeJSONError, err)
	}

	// Ensure no extra tokens after decoding
	if _, err := decoder.Token(); err != io.EOF {
		return errors.Join(DecodeJSONError, fmt.Errorf("Extraneous tokens found in request"))
	}
	return nil
}

// Encode a response body as JSON with the matching content type
func EncodeJson(w http.ResponseWriter, status int, body interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
