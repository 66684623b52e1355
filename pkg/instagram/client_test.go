package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
)

func newGraphStub(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v19.0/ig-user-1/media":
			if strings.TrimSpace(r.FormValue("image_url")) == "" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"message":"image_url required","type":"OAuthException","code":100}}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"container-9"}`))
		case "/v19.0/ig-user-1/media_publish":
			if r.FormValue("creation_id") != "container-9" {
				t.Errorf("creation_id: %s", r.FormValue("creation_id"))
			}
			_, _ = w.Write([]byte(`{"id":"media-55"}`))
		case "/v19.0/media-55/insights":
			_, _ = w.Write([]byte(`{"data":[
				{"name":"impressions","values":[{"value":120}]},
				{"name":"reach","values":[{"value":80}]},
				{"name":"likes","values":[{"value":12}]},
				{"name":"comments","values":[{"value":3}]}
			]}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	client := NewClient(config.InstagramConfig{GraphBaseURL: srv.URL, APIVersion: "v19.0"}, nil)
	return srv, client
}

func TestPublishTwoPhaseFlow(t *testing.T) {
	srv, client := newGraphStub(t)
	defer srv.Close()

	result, err := client.Publish(context.Background(), PublishInput{
		IGUserID:    "ig-user-1",
		AccessToken: "token",
		ImageURL:    "https://cdn.example.com/car.jpg",
		Caption:     "New arrival",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if result.MediaID != "media-55" {
		t.Fatalf("media id: %s", result.MediaID)
	}
}

func TestPublishValidatesInput(t *testing.T) {
	client := NewClient(config.InstagramConfig{}, nil)
	_, err := client.Publish(context.Background(), PublishInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublishSurfacesGraphError(t *testing.T) {
	srv, client := newGraphStub(t)
	defer srv.Close()

	_, err := client.Publish(context.Background(), PublishInput{
		IGUserID:    "ig-user-1",
		AccessToken: "token",
		ImageURL:    " ",
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchInsights(t *testing.T) {
	srv, client := newGraphStub(t)
	defer srv.Close()

	insights, err := client.FetchInsights(context.Background(), "media-55", "token")
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if insights.Impressions != 120 || insights.Reach != 80 || insights.Likes != 12 || insights.Comments != 3 {
		t.Fatalf("insights: %+v", insights)
	}
}

func TestGraphErrorMappedToProviderCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	client := NewClient(config.InstagramConfig{GraphBaseURL: srv.URL}, nil)
	_, err := client.Publish(context.Background(), PublishInput{
		IGUserID:    "ig-user-1",
		AccessToken: "bad",
		ImageURL:    "https://cdn.example.com/car.jpg",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeProvider {
		t.Fatalf("expected provider error, got %v", err)
	}
	if typed.Message() != "Invalid OAuth access token" {
		t.Fatalf("message: %s", typed.Message())
	}
}
