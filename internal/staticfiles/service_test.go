package staticfiles

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/storage/azblob"
)

type stubFetcher struct {
	gets       []string
	rangeGets  []string
	missing    bool
	lastHeader string
}

func (s *stubFetcher) Get(_ context.Context, container, blob string) (*azblob.Object, error) {
	s.gets = append(s.gets, container+"/"+blob)
	if s.missing {
		return nil, azblob.ErrBlobNotFound
	}
	return &azblob.Object{
		Body:        io.NopCloser(strings.NewReader("content")),
		ContentType: "image/png",
		StatusCode:  http.StatusOK,
	}, nil
}

func (s *stubFetcher) GetRange(_ context.Context, container, blob, rangeHeader string) (*azblob.Object, error) {
	s.rangeGets = append(s.rangeGets, container+"/"+blob)
	s.lastHeader = rangeHeader
	return &azblob.Object{
		Body:         io.NopCloser(strings.NewReader("part")),
		ContentType:  "video/mp4",
		ContentRange: "bytes 0-3/100",
		StatusCode:   http.StatusPartialContent,
	}, nil
}

func newStaticFixture(t *testing.T) (Service, *stubFetcher) {
	t.Helper()
	fetcher := &stubFetcher{}
	svc, err := NewService(fetcher, []string{"images", "Videos "})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, fetcher
}

func TestFetchAllowedContainer(t *testing.T) {
	svc, fetcher := newStaticFixture(t)

	object, err := svc.Fetch(context.Background(), "images", "company/logo.png", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if object.ContentType != "image/png" {
		t.Fatalf("content type: %s", object.ContentType)
	}
	if len(fetcher.gets) != 1 || fetcher.gets[0] != "images/company/logo.png" {
		t.Fatalf("gets: %v", fetcher.gets)
	}
}

func TestFetchNormalizesContainerCase(t *testing.T) {
	svc, _ := newStaticFixture(t)
	if _, err := svc.Fetch(context.Background(), "VIDEOS", "clip.mp4", ""); err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestFetchRejectsUnknownContainer(t *testing.T) {
	svc, fetcher := newStaticFixture(t)

	_, err := svc.Fetch(context.Background(), "secrets", "file.txt", "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(fetcher.gets) != 0 {
		t.Fatal("store must not be hit")
	}
}

func TestFetchRejectsTraversal(t *testing.T) {
	svc, fetcher := newStaticFixture(t)

	for _, path := range []string{"../etc/passwd", "a/../../b", "a/./b", "a//b", `a\..\b`} {
		_, err := svc.Fetch(context.Background(), "images", path, "")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", path, err)
		}
	}
	if len(fetcher.gets) != 0 {
		t.Fatal("store must not be hit")
	}
}

func TestFetchRangePassthrough(t *testing.T) {
	svc, fetcher := newStaticFixture(t)

	object, err := svc.Fetch(context.Background(), "videos", "clip.mp4", "bytes=0-3")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if object.StatusCode != http.StatusPartialContent || object.ContentRange == "" {
		t.Fatalf("object: %+v", object)
	}
	if fetcher.lastHeader != "bytes=0-3" {
		t.Fatalf("range header: %s", fetcher.lastHeader)
	}
}

func TestFetchMissingBlobIsNotFound(t *testing.T) {
	svc, fetcher := newStaticFixture(t)
	fetcher.missing = true

	_, err := svc.Fetch(context.Background(), "images", "gone.png", "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
