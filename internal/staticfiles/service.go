package staticfiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/storage/azblob"
)

type blobFetcher interface {
	Get(ctx context.Context, container, blob string) (*azblob.Object, error)
	GetRange(ctx context.Context, container, blob, rangeHeader string) (*azblob.Object, error)
}

// Service proxies files out of blob storage. Containers come from a fixed
// allow-list and blob paths must not traverse upward.
type Service interface {
	Fetch(ctx context.Context, container, blobPath, rangeHeader string) (*azblob.Object, error)
}

type service struct {
	store      blobFetcher
	containers map[string]struct{}
}

// NewService builds a static file proxy over the given store.
func NewService(store blobFetcher, allowedContainers []string) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	containers := make(map[string]struct{}, len(allowedContainers))
	for _, name := range allowedContainers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			containers[name] = struct{}{}
		}
	}
	return &service{store: store, containers: containers}, nil
}

func (s *service) Fetch(ctx context.Context, container, blobPath, rangeHeader string) (*azblob.Object, error) {
	container = strings.ToLower(strings.TrimSpace(container))
	if _, ok := s.containers[container]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "container is not served")
	}

	blobPath = strings.Trim(blobPath, "/")
	if blobPath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file path is required")
	}
	if containsTraversal(blobPath) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file path is invalid")
	}

	var (
		object *azblob.Object
		err    error
	)
	if rangeHeader != "" {
		object, err = s.store.GetRange(ctx, container, blobPath, rangeHeader)
	} else {
		object, err = s.store.Get(ctx, container, blobPath)
	}
	if err != nil {
		if errors.Is(err, azblob.ErrBlobNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "file not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch file")
	}
	return object, nil
}

// containsTraversal rejects any segment that could escape the container root.
func containsTraversal(blobPath string) bool {
	if strings.Contains(blobPath, "\\") {
		return true
	}
	for _, segment := range strings.Split(blobPath, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return true
		}
	}
	return false
}
