package azblob

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

const (
	apiVersion  = "2021-12-02"
	pingTimeout = 5 * time.Second
)

// Client talks to the Azure Blob REST API using shared-key authorization.
type Client struct {
	httpClient  *http.Client
	accountName string
	accountKey  []byte
	endpoint    string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Object is a downloaded blob with its metadata.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	ContentRange  string
	StatusCode    int
}

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer, msg string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.Warn(ctx, msg)
	}
}

func NewClient(ctx context.Context, cfg config.AzureBlobConfig, logg *logger.Logger) (*Client, error) {
	if cfg.AccountName == "" {
		return nil, errors.New("azure storage account name is required")
	}
	if cfg.AccountKey == "" {
		return nil, errors.New("azure storage account key is required")
	}

	key, err := base64.StdEncoding.DecodeString(cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("decoding azure account key: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", cfg.AccountName)
	}

	client := &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		accountName: cfg.AccountName,
		accountKey:  key,
		endpoint:    endpoint,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("azure blob health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "azure blob client initialized")
	}

	return client, nil
}

// Ping lists containers with maxresults=1 to verify credentials.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || len(c.accountKey) == 0 {
		return errors.New("azure blob client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/?comp=list&maxresults=1", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if err := c.sign(req, 0); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("azure container check failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("azure container check failed: %s", resp.Status)
	}
	return nil
}

// Put uploads a block blob. Size must match the body's length exactly.
func (c *Client) Put(ctx context.Context, container, blob, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.blobURL(container, blob), body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if err := c.sign(req, size); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(ctx, nil, resp.Body, "azblob: closing response body failed")

	if resp.StatusCode != http.StatusCreated {
		return responseError("upload", resp)
	}
	return nil
}

// Get downloads a full blob. Caller owns the returned body.
func (c *Client) Get(ctx context.Context, container, blob string) (*Object, error) {
	return c.get(ctx, container, blob, "")
}

// GetRange downloads a byte range, passing the client's Range header through.
func (c *Client) GetRange(ctx context.Context, container, blob, rangeHeader string) (*Object, error) {
	return c.get(ctx, container, blob, rangeHeader)
}

func (c *Client) get(ctx context.Context, container, blob, rangeHeader string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.blobURL(container, blob), nil)
	if err != nil {
		return nil, err
	}
	if rangeHeader != "" {
		req.Header.Set("x-ms-range", rangeHeader)
	}
	if err := c.sign(req, 0); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
		return &Object{
			Body:          resp.Body,
			ContentType:   resp.Header.Get("Content-Type"),
			ContentLength: resp.ContentLength,
			ContentRange:  resp.Header.Get("Content-Range"),
			StatusCode:    resp.StatusCode,
		}, nil
	case http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, ErrBlobNotFound
	default:
		err := responseError("download", resp)
		_ = resp.Body.Close()
		return nil, err
	}
}

// Delete removes a blob. Missing blobs are not an error.
func (c *Client) Delete(ctx context.Context, container, blob string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.blobURL(container, blob), nil)
	if err != nil {
		return err
	}
	if err := c.sign(req, 0); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(ctx, nil, resp.Body, "azblob: closing response body failed")

	switch resp.StatusCode {
	case http.StatusAccepted, http.StatusNotFound:
		return nil
	default:
		return responseError("delete", resp)
	}
}

// ErrBlobNotFound is returned by Get when the blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// PublicURL returns the unauthenticated URL for a blob, used when the
// container allows anonymous read.
func (c *Client) PublicURL(container, blob string) string {
	return c.blobURL(container, blob)
}

func (c *Client) blobURL(container, blob string) string {
	return fmt.Sprintf("%s/%s/%s", c.endpoint, url.PathEscape(container), escapeBlobPath(blob))
}

// escapeBlobPath escapes each path segment while keeping separators intact.
func escapeBlobPath(blob string) string {
	segments := strings.Split(blob, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func responseError(action string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(b) > 0 {
		return fmt.Errorf("azure blob %s failed: %s: %s", action, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("azure blob %s failed: %s", action, resp.Status)
}

// sign applies SharedKey authorization per the Azure Storage spec.
func (c *Client) sign(req *http.Request, contentLength int64) error {
	req.Header.Set("x-ms-date", time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set("x-ms-version", apiVersion)

	lengthField := ""
	if contentLength > 0 {
		lengthField = strconv.FormatInt(contentLength, 10)
	}

	stringToSign := strings.Join([]string{
		req.Method,
		req.Header.Get("Content-Encoding"),
		req.Header.Get("Content-Language"),
		lengthField,
		req.Header.Get("Content-MD5"),
		req.Header.Get("Content-Type"),
		"", // Date is carried in x-ms-date
		req.Header.Get("If-Modified-Since"),
		req.Header.Get("If-Match"),
		req.Header.Get("If-None-Match"),
		req.Header.Get("If-Unmodified-Since"),
		req.Header.Get("Range"),
		c.canonicalizedHeaders(req),
		c.canonicalizedResource(req),
	}, "\n")

	mac := hmac.New(sha256.New, c.accountKey)
	mac.Write([]byte(stringToSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("Authorization", fmt.Sprintf("SharedKey %s:%s", c.accountName, signature))
	return nil
}

func (c *Client) canonicalizedHeaders(req *http.Request) string {
	var names []string
	for name := range req.Header {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "x-ms-") {
			names = append(names, lower)
		}
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		values := req.Header.Values(http.CanonicalHeaderKey(name))
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
		}
		lines = append(lines, name+":"+strings.Join(values, ","))
	}
	return strings.Join(lines, "\n")
}

func (c *Client) canonicalizedResource(req *http.Request) string {
	var sb strings.Builder
	sb.WriteString("/")
	sb.WriteString(c.accountName)
	sb.WriteString(req.URL.EscapedPath())

	query := req.URL.Query()
	if len(query) == 0 {
		return sb.String()
	}

	var keys []string
	for key := range query {
		keys = append(keys, strings.ToLower(key))
	}
	sort.Strings(keys)

	for _, key := range keys {
		values := query[key]
		sort.Strings(values)
		sb.WriteString("\n")
		sb.WriteString(key)
		sb.WriteString(":")
		sb.WriteString(strings.Join(values, ","))
	}
	return sb.String()
}
