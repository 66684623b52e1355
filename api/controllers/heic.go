package controllers

import (
	"errors"
	"net/http"

	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/imagesidecar"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

// ConvertHEIC proxies a single file through the conversion sidecar.
func ConvertHEIC(client *imagesidecar.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "conversion sidecar not configured"))
			return
		}

		filename, data, err := readUpload(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := client.Convert(r.Context(), filename, data)
		if err != nil {
			if errors.Is(err, imagesidecar.ErrUnavailable) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "conversion sidecar unavailable"))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", result.ContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Data)
	}
}

// HEICCapabilities reports what the sidecar supports. A down sidecar reads
// as "unsupported", not as an error.
func HEICCapabilities(client *imagesidecar.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteSuccess(w, imagesidecar.Capabilities{})
			return
		}

		caps, err := client.Capabilities(r.Context())
		if err != nil {
			if logg != nil {
				logg.Warn(r.Context(), "sidecar capabilities unavailable")
			}
			responses.WriteSuccess(w, imagesidecar.Capabilities{})
			return
		}
		responses.WriteSuccess(w, caps)
	}
}

// HEICStats reports sidecar conversion counters, zeroed when it is down.
func HEICStats(client *imagesidecar.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteSuccess(w, imagesidecar.Stats{})
			return
		}

		stats, err := client.Stats(r.Context())
		if err != nil {
			if logg != nil {
				logg.Warn(r.Context(), "sidecar stats unavailable")
			}
			responses.WriteSuccess(w, imagesidecar.Stats{})
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
