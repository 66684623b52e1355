package instagram

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

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

// Client talks to the Instagram Graph API for publishing and insights.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiVersion string
	logg       *logger.Logger
}

// PublishInput describes a single-image post to publish.
type PublishInput struct {
	IGUserID    string
	AccessToken string
	ImageURL    string
	Caption     string
}

// PublishResult carries the provider's media identifier.
type PublishResult struct {
	MediaID string
}

// Insights carries post-level engagement metrics.
type Insights struct {
	Impressions int64
	Reach       int64
	Likes       int64
	Comments    int64
}

type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func NewClient(cfg config.InstagramConfig, logg *logger.Logger) *Client {
	baseURL := strings.TrimRight(cfg.GraphBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://graph.facebook.com"
	}
	version := cfg.APIVersion
	if version == "" {
		version = "v19.0"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiVersion: version,
		logg:       logg,
	}
}

// Publish creates a media container and then publishes it. Both Graph calls
// must succeed for the post to go live.
func (c *Client) Publish(ctx context.Context, in PublishInput) (*PublishResult, error) {
	if in.IGUserID == "" || in.AccessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "instagram account credentials are required")
	}
	if in.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}

	containerID, err := c.createContainer(ctx, in)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", in.AccessToken)

	var out struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, fmt.Sprintf("/%s/media_publish", in.IGUserID), form, &out); err != nil {
		return nil, err
	}
	return &PublishResult{MediaID: out.ID}, nil
}

func (c *Client) createContainer(ctx context.Context, in PublishInput) (string, error) {
	form := url.Values{}
	form.Set("image_url", in.ImageURL)
	form.Set("caption", in.Caption)
	form.Set("access_token", in.AccessToken)

	var out struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, fmt.Sprintf("/%s/media", in.IGUserID), form, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeProvider, "instagram returned empty container id")
	}
	return out.ID, nil
}

// FetchInsights pulls engagement metrics for a published media item.
func (c *Client) FetchInsights(ctx context.Context, mediaID, accessToken string) (*Insights, error) {
	q := url.Values{}
	q.Set("metric", "impressions,reach,likes,comments")
	q.Set("access_token", accessToken)

	endpoint := fmt.Sprintf("%s/%s/%s/insights?%s", c.baseURL, c.apiVersion, mediaID, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "instagram insights request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, providerErrorFromResponse(resp)
	}

	var payload struct {
		Data []struct {
			Name   string `json:"name"`
			Values []struct {
				Value int64 `json:"value"`
			} `json:"values"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	insights := &Insights{}
	for _, metric := range payload.Data {
		if len(metric.Values) == 0 {
			continue
		}
		value := metric.Values[0].Value
		switch metric.Name {
		case "impressions":
			insights.Impressions = value
		case "reach":
			insights.Reach = value
		case "likes":
			insights.Likes = value
		case "comments":
			insights.Comments = value
		}
	}
	return insights, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, dst any) error {
	endpoint := fmt.Sprintf("%s/%s%s", c.baseURL, c.apiVersion, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "instagram request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return providerErrorFromResponse(resp)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// providerErrorFromResponse surfaces the Graph API's own error message.
func providerErrorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var ge graphError
	if err := json.Unmarshal(body, &ge); err == nil && ge.Error.Message != "" {
		return pkgerrors.Wrap(pkgerrors.CodeProvider, errors.New(ge.Error.Type), ge.Error.Message).WithDetails(map[string]any{
			"provider_code": ge.Error.Code,
		})
	}
	return pkgerrors.New(pkgerrors.CodeProvider, fmt.Sprintf("instagram request failed: %s", resp.Status))
}
