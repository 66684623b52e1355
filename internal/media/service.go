package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/imagesidecar"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

const bytesPerMB = int64(1 << 20)

// allowedExtensions maps each asset kind to its accepted file extensions.
var allowedExtensions = map[enums.AssetKind][]string{
	enums.AssetKindLogo:         {".png", ".jpg", ".jpeg", ".svg", ".webp", ".heic", ".heif"},
	enums.AssetKindBanner:       {".png", ".jpg", ".jpeg", ".webp", ".heic", ".heif"},
	enums.AssetKindVehicleImage: {".png", ".jpg", ".jpeg", ".webp", ".heic", ".heif"},
	enums.AssetKindVideo:        {".mp4", ".mov", ".webm", ".m4v"},
}

// containerFor maps each asset kind to its blob container.
var containerFor = map[enums.AssetKind]string{
	enums.AssetKindLogo:         "logos",
	enums.AssetKindBanner:       "banners",
	enums.AssetKindVehicleImage: "images",
	enums.AssetKindVideo:        "videos",
}

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
}

type blobStore interface {
	Put(ctx context.Context, container, blob, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, container, blob string) error
	PublicURL(container, blob string) string
}

type heicConverter interface {
	Convert(ctx context.Context, filename string, data []byte) (*imagesidecar.ConvertResult, error)
}

type companyStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
}

type vehicleStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
}

// configCache drops the cached branding config when a logo or banner changes;
// the public config endpoint serves those URLs from cache.
type configCache interface {
	Invalidate(ctx context.Context, subdomain string) error
}

// UploadInput is one incoming media file.
type UploadInput struct {
	Kind     enums.AssetKind
	Filename string
	Data     []byte
}

// UploadResult reports where the stored asset lives.
type UploadResult struct {
	URL         string `json:"url"`
	Container   string `json:"container"`
	Blob        string `json:"blob"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Converted   bool   `json:"converted"`
}

// Service stores tenant media in blob storage, converting HEIC uploads via the
// sidecar when it is reachable.
type Service interface {
	UploadCompanyAsset(ctx context.Context, companyID uuid.UUID, input UploadInput) (*UploadResult, error)
	UploadVehicleImage(ctx context.Context, companyID, vehicleID uuid.UUID, input UploadInput) (*UploadResult, error)
}

type service struct {
	store     blobStore
	converter heicConverter
	companies companyStore
	vehicles  vehicleStore
	cache     configCache
	limits    config.MediaConfig
	logg      *logger.Logger
}

// NewService wires media uploads to blob storage and the HEIC sidecar.
// The converter may be nil; HEIC uploads are then stored unconverted.
// The cache may be nil; branding changes then age out on the TTL alone.
func NewService(store blobStore, converter heicConverter, companies companyStore, vehicles vehicleStore, cache configCache, limits config.MediaConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if companies == nil || vehicles == nil {
		return nil, fmt.Errorf("media repositories required")
	}
	return &service{
		store:     store,
		converter: converter,
		companies: companies,
		vehicles:  vehicles,
		cache:     cache,
		limits:    limits,
		logg:      logg,
	}, nil
}

// UploadCompanyAsset stores a logo, banner or promo video for the tenant and
// records the URL on the company row. The previous blob is deleted best-effort.
func (s *service) UploadCompanyAsset(ctx context.Context, companyID uuid.UUID, input UploadInput) (*UploadResult, error) {
	if input.Kind == enums.AssetKindVehicleImage {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle images are uploaded per vehicle")
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}

	result, err := s.storeAsset(ctx, companyID, input)
	if err != nil {
		return nil, err
	}

	var previous *string
	switch input.Kind {
	case enums.AssetKindLogo:
		previous = company.LogoURL
		company.LogoURL = &result.URL
	case enums.AssetKindBanner:
		previous = company.BannerURL
		company.BannerURL = &result.URL
	case enums.AssetKindVideo:
		// videos are not recorded on the company row, URL goes to the caller
	}

	if input.Kind != enums.AssetKindVideo {
		if err := s.companies.Update(ctx, company); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
		}
		if s.cache != nil && company.Subdomain != nil {
			_ = s.cache.Invalidate(ctx, *company.Subdomain)
		}
	}
	s.deletePrevious(ctx, previous)
	return result, nil
}

// UploadVehicleImage stores a fleet photo and records it on the vehicle row.
func (s *service) UploadVehicleImage(ctx context.Context, companyID, vehicleID uuid.UUID, input UploadInput) (*UploadResult, error) {
	input.Kind = enums.AssetKindVehicleImage

	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	if vehicle.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}

	result, err := s.storeAsset(ctx, companyID, input)
	if err != nil {
		return nil, err
	}

	previous := vehicle.ImageURL
	vehicle.ImageURL = &result.URL
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
	}
	s.deletePrevious(ctx, previous)
	return result, nil
}

func (s *service) storeAsset(ctx context.Context, companyID uuid.UUID, input UploadInput) (*UploadResult, error) {
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid asset kind")
	}
	if len(input.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}

	ext := strings.ToLower(path.Ext(input.Filename))
	if !extensionAllowed(input.Kind, ext) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("extension %s is not allowed for %s uploads", ext, input.Kind))
	}

	limit := s.sizeLimit(input.Kind)
	if int64(len(input.Data)) > limit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB limit for %s uploads", limit/bytesPerMB, input.Kind))
	}

	data := input.Data
	contentType := contentTypes[ext]
	converted := false
	if isHEIC(ext) {
		data, contentType, converted = s.convertHEIC(ctx, input.Filename, data, contentType)
		if converted {
			ext = ".jpg"
		}
	}

	container := containerFor[input.Kind]
	blob := fmt.Sprintf("%s/%s/%s%s", companyID, input.Kind, uuid.New(), ext)
	if err := s.store.Put(ctx, container, blob, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store media")
	}

	return &UploadResult{
		URL:         s.store.PublicURL(container, blob),
		Container:   container,
		Blob:        blob,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Converted:   converted,
	}, nil
}

// convertHEIC tries the sidecar; any failure degrades to storing the original.
func (s *service) convertHEIC(ctx context.Context, filename string, data []byte, contentType string) ([]byte, string, bool) {
	if s.converter == nil {
		return data, contentType, false
	}
	result, err := s.converter.Convert(ctx, filename, data)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "heic conversion unavailable, storing original")
		}
		return data, contentType, false
	}
	return result.Data, result.ContentType, true
}

// deletePrevious removes the old blob for a replaced asset. Failures are
// logged, never fatal.
func (s *service) deletePrevious(ctx context.Context, previousURL *string) {
	if previousURL == nil || *previousURL == "" {
		return
	}
	container, blob, ok := splitBlobURL(*previousURL)
	if !ok {
		return
	}
	if err := s.store.Delete(ctx, container, blob); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "deleting previous media blob failed")
	}
}

func (s *service) sizeLimit(kind enums.AssetKind) int64 {
	switch kind {
	case enums.AssetKindVideo:
		return s.limits.MaxVideoMB * bytesPerMB
	case enums.AssetKindBanner:
		return s.limits.MaxBannerMB * bytesPerMB
	case enums.AssetKindLogo:
		return s.limits.MaxLogoMB * bytesPerMB
	default:
		return s.limits.MaxVehicleMB * bytesPerMB
	}
}

func extensionAllowed(kind enums.AssetKind, ext string) bool {
	for _, candidate := range allowedExtensions[kind] {
		if candidate == ext {
			return true
		}
	}
	return false
}

func isHEIC(ext string) bool {
	return ext == ".heic" || ext == ".heif"
}

// splitBlobURL recovers (container, blob) from a stored public URL.
func splitBlobURL(raw string) (string, string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}
	trimmed := strings.TrimPrefix(parsed.Path, "/")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	blob, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", "", false
	}
	return parts[0], blob, true
}
