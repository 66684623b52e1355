package imagesidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

// ErrUnavailable signals the sidecar could not be reached. Callers treat it
// as a soft failure and fall back to storing the original upload.
var ErrUnavailable = errors.New("image sidecar unavailable")

// Client talks to the local image conversion sidecar over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
}

// ConvertResult carries the converted image bytes.
type ConvertResult struct {
	Data        []byte
	ContentType string
}

// Capabilities reports what the sidecar can convert.
type Capabilities struct {
	HEICSupported bool     `json:"heic_supported"`
	Formats       []string `json:"formats"`
	Version       string   `json:"version"`
}

// Stats reports the sidecar's conversion counters.
type Stats struct {
	Converted  int64 `json:"converted"`
	Failed     int64 `json:"failed"`
	UptimeSecs int64 `json:"uptime_seconds"`
}

func NewClient(cfg config.SidecarConfig, logg *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logg:       logg,
	}
}

// Convert submits HEIC/HEIF bytes and returns the JPEG rendition. Network
// failures come back as ErrUnavailable so uploads can degrade gracefully.
func (c *Client) Convert(ctx context.Context, filename string, data []byte) (*ConvertResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("sidecar convert failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	converted, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &ConvertResult{Data: converted, ContentType: contentType}, nil
}

// Capabilities asks the sidecar what formats it supports.
func (c *Client) Capabilities(ctx context.Context) (*Capabilities, error) {
	var caps Capabilities
	if err := c.getJSON(ctx, "/capabilities", &caps); err != nil {
		return nil, err
	}
	return &caps, nil
}

// Stats returns the sidecar's conversion counters.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.getJSON(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Available probes the sidecar and reports whether HEIC conversion works.
func (c *Client) Available(ctx context.Context) bool {
	caps, err := c.Capabilities(ctx)
	if err != nil {
		if c.logg != nil && !errors.Is(err, ErrUnavailable) {
			c.logg.Warn(ctx, "image sidecar capability probe failed")
		}
		return false
	}
	return caps.HEICSupported
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sidecar request %s failed: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
