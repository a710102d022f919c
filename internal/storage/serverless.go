package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonoraErrors "sonora-backend/internal/errors"
	sonoraHttp "sonora-backend/internal/http"

	"github.com/hashicorp/go-retryablehttp"
)

// Serverless backend: payload operations are delegated to a remote
// function fronting the actual storage. The function exposes
// GET/HEAD/POST/DELETE under /songs/{name}.
type serverlessBackend struct {
	baseURL string
	client  *sonoraHttp.Client
}

func NewServerlessBackend(baseURL string, client *sonoraHttp.Client) Backend {
	return &serverlessBackend{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

func (b *serverlessBackend) Put(ctx context.Context, name string, data []byte) error {
	req, err := retryablehttp.NewRequest(http.MethodPost, b.URL(name), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := b.client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("Failed to upload song payload: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return sonoraHttp.NewHTTPError(res.StatusCode, res.Status, "")
	}
	return nil
}

func (b *serverlessBackend) Get(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, b.URL(name), nil)
	if err != nil {
		return nil, 0, err
	}
	res, err := b.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, 0, fmt.Errorf("Failed to fetch song payload: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil, 0, sonoraErrors.ErrDataNotFound
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, 0, sonoraHttp.NewHTTPError(res.StatusCode, res.Status, "")
	}
	return res.Body, res.ContentLength, nil
}

func (b *serverlessBackend) Size(ctx context.Context, name string) (int64, error) {
	req, err := retryablehttp.NewRequest(http.MethodHead, b.URL(name), nil)
	if err != nil {
		return 0, err
	}
	res, err := b.client.Do(req.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("Failed to stat song payload: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return 0, sonoraErrors.ErrDataNotFound
	}
	if res.StatusCode != http.StatusOK {
		return 0, sonoraHttp.NewHTTPError(res.StatusCode, res.Status, "")
	}
	return res.ContentLength, nil
}

func (b *serverlessBackend) Delete(ctx context.Context, name string) error {
	req, err := retryablehttp.NewRequest(http.MethodDelete, b.URL(name), nil)
	if err != nil {
		return err
	}
	res, err := b.client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("Failed to delete song payload: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return sonoraErrors.ErrDataNotFound
	}
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusAccepted && res.StatusCode != http.StatusNoContent {
		return sonoraHttp.NewHTTPError(res.StatusCode, res.Status, "")
	}
	return nil
}

func (b *serverlessBackend) URL(name string) string {
	return fmt.Sprintf("%s/songs/%s", b.baseURL, name)
}
