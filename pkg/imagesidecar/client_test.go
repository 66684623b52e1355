package imagesidecar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
)

func TestConvertRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convert" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart parse: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer func() { _ = file.Close() }()
		if header.Filename != "photo.heic" {
			t.Errorf("filename: %s", header.Filename)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	client := NewClient(config.SidecarConfig{BaseURL: srv.URL}, nil)
	result, err := client.Convert(context.Background(), "photo.heic", []byte("heic-bytes"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if string(result.Data) != "jpeg-bytes" {
		t.Fatalf("data: %s", result.Data)
	}
	if result.ContentType != "image/jpeg" {
		t.Fatalf("content type: %s", result.ContentType)
	}
}

func TestConvertUnreachableReturnsErrUnavailable(t *testing.T) {
	client := NewClient(config.SidecarConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	_, err := client.Convert(context.Background(), "photo.heic", []byte("x"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAvailableReflectsCapabilities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/capabilities" {
			t.Errorf("path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"heic_supported":true,"formats":["heic","heif"],"version":"1.2.0"}`))
	}))
	defer srv.Close()

	client := NewClient(config.SidecarConfig{BaseURL: srv.URL}, nil)
	if !client.Available(context.Background()) {
		t.Fatal("expected sidecar to be available")
	}
}

func TestAvailableFalseWhenUnreachable(t *testing.T) {
	client := NewClient(config.SidecarConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	if client.Available(context.Background()) {
		t.Fatal("expected sidecar to be unavailable")
	}
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"converted":42,"failed":1,"uptime_seconds":3600}`))
	}))
	defer srv.Close()

	client := NewClient(config.SidecarConfig{BaseURL: srv.URL}, nil)
	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Converted != 42 || stats.Failed != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}
