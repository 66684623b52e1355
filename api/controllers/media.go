package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	mediasvc "github.com/fleetdesk/fleetdesk-backend/internal/media"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

// Multipart bodies buffer to disk above this threshold; the per-kind byte
// ceilings are enforced by the service.
const multipartMemoryLimit = 32 << 20

// UploadCompanyAsset stores a logo, banner or promo video for the tenant.
func UploadCompanyAsset(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		companyID, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, companyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseAssetKind(strings.TrimSpace(r.FormValue("kind")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset kind"))
			return
		}

		filename, data, err := readUpload(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UploadCompanyAsset(r.Context(), companyID, mediasvc.UploadInput{
			Kind:     kind,
			Filename: filename,
			Data:     data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// UploadVehicleImage stores a vehicle photo and points the vehicle row at it.
func UploadVehicleImage(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		companyID, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, companyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicleID, err := pathUUID(r, "vehicleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename, data, err := readUpload(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UploadVehicleImage(r.Context(), companyID, vehicleID, mediasvc.UploadInput{
			Kind:     enums.AssetKindVehicleImage,
			Filename: filename,
			Data:     data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func readUpload(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request must be multipart/form-data")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading upload")
	}
	return header.Filename, data, nil
}
