// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package avatars

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Extensions the store may hold for one student; Delete removes all of them.
var knownExtensions = []string{"jpg", "jpeg", "png"}

// Client stores profile pictures in a bucket-style object store over REST.
type Client struct {
	BaseURL string
	Bucket  string
	APIKey  string
	HTTP    *http.Client
}

// New creates a storage client. baseURL is the store's API root,
// e.g. "https://assets.example.edu/storage/v1".
func New(baseURL, bucket, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Bucket:  bucket,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// AvatarPath returns the object key for a student's avatar
func AvatarPath(studentID, ext string) string {
	return studentID + "/avatar." + ext
}

// ExtensionFor maps an image content type to a file extension
func ExtensionFor(contentType string) (string, bool) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "jpg", true
	case "image/png":
		return "png", true
	}
	return "", false
}

// Store uploads an object and returns its durable public URL.
// Existing objects at the same path are overwritten.
func (c *Client) Store(path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/object/%s/%s", c.BaseURL, c.Bucket, path)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("avatars: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("x-upsert", "true")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("avatars: upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("avatars: upload failed (%d): %s", resp.StatusCode, string(body))
	}

	return c.PublicURL(path), nil
}

// PublicURL returns the durable public URL for an object path
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.BaseURL, c.Bucket, path)
}

// DeleteAll removes every known extension variant of a student's avatar.
// Missing objects are not an error.
func (c *Client) DeleteAll(studentID string) error {
	paths := make([]string, 0, len(knownExtensions))
	for _, ext := range knownExtensions {
		paths = append(paths, AvatarPath(studentID, ext))
	}
	return c.Delete(paths)
}

// Delete removes the given object paths from the bucket
func (c *Client) Delete(paths []string) error {
	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("avatars: encode delete request failed: %w", err)
	}

	url := fmt.Sprintf("%s/object/%s", c.BaseURL, c.Bucket)
	req, err := http.NewRequest(http.MethodDelete, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("avatars: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("avatars: delete failed: %w", err)
	}
	defer resp.Body.Close()

	// 404 means the objects were already gone
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("avatars: delete failed (%d): %s", resp.StatusCode, string(body))
	}

	return nil
}
