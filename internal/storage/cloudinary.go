package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	sonoraErrors "sonora-backend/internal/errors"
	sonoraHttp "sonora-backend/internal/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/hashicorp/go-retryablehttp"
)

const songsFolder = "songs"

// External object-storage backend: payloads are uploaded to Cloudinary
// and served from its CDN. Reads go over HTTP against the delivery URL.
type cloudinaryBackend struct {
	cld    *cloudinary.Cloudinary
	client *sonoraHttp.Client
}

func NewCloudinaryBackend(cloudinaryURL string, client *sonoraHttp.Client) (Backend, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("Failed to initialize cloudinary client: %w", err)
	}
	return &cloudinaryBackend{cld: cld, client: client}, nil
}

func (b *cloudinaryBackend) Put(ctx context.Context, name string, data []byte) error {
	// Audio uploads use the video resource type on Cloudinary.
	_, err := b.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     name,
		Folder:       songsFolder,
		ResourceType: "video",
	})
	if err != nil {
		return fmt.Errorf("Failed to upload song payload: %w", err)
	}
	return nil
}

func (b *cloudinaryBackend) Get(ctx context.Context, name string) (io.ReadCloser, int64, error) {
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

func (b *cloudinaryBackend) Size(ctx context.Context, name string) (int64, error) {
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

func (b *cloudinaryBackend) Delete(ctx context.Context, name string) error {
	_, err := b.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     songsFolder + "/" + name,
		ResourceType: "video",
	})
	if err != nil {
		return fmt.Errorf("Failed to delete song payload: %w", err)
	}
	return nil
}

// URL returns the CDN delivery URL for the payload.
func (b *cloudinaryBackend) URL(name string) string {
	asset, err := b.cld.Video(songsFolder + "/" + name)
	if err != nil {
		return ""
	}
	url, err := asset.String()
	if err != nil {
		return ""
	}
	return url
}
