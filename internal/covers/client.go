// Package covers looks up book cover images on the Google Books volumes API
// and stores them next to the catalog.
package covers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoCover means the lookup succeeded but offered no usable image
var ErrNoCover = errors.New("no cover image found")

// imageQualities is the preference order for imageLinks
var imageQualities = []string{"extraLarge", "large", "medium", "thumbnail"}

// Client talks to the Google Books API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// https://www.googleapis.com/books/v1
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			ImageLinks map[string]string `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// LookupCover returns the best image URL of the first volume matching title and author
func (c *Client) LookupCover(ctx context.Context, title, author string) (string, error) {
	endpoint := c.baseURL + "/volumes?q=" + url.QueryEscape(title+" "+author)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("volumes request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("volumes request returned %d", resp.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode volumes response: %w", err)
	}
	if len(body.Items) == 0 {
		return "", ErrNoCover
	}

	links := body.Items[0].VolumeInfo.ImageLinks
	for _, quality := range imageQualities {
		if link := links[quality]; link != "" {
			return link, nil
		}
	}
	return "", ErrNoCover
}

// Download writes the image at imageURL to w
func (c *Client) Download(ctx context.Context, imageURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image request returned %d", resp.StatusCode)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
