package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	staticsvc "github.com/fleetdesk/fleetdesk-backend/internal/staticfiles"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

// ServeStaticFile proxies a blob from storage, passing byte ranges through.
func ServeStaticFile(svc staticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "static file service unavailable"))
			return
		}

		container := chi.URLParam(r, "container")
		blobPath := chi.URLParam(r, "*")

		object, err := svc.Fetch(r.Context(), container, blobPath, r.Header.Get("Range"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer object.Body.Close()

		if object.ContentType != "" {
			w.Header().Set("Content-Type", object.ContentType)
		}
		if object.ContentLength > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(object.ContentLength, 10))
		}
		if object.ContentRange != "" {
			w.Header().Set("Content-Range", object.ContentRange)
		}
		w.Header().Set("Accept-Ranges", "bytes")

		status := object.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)

		if _, err := io.Copy(w, object.Body); err != nil && logg != nil {
			logg.Warn(r.Context(), "streaming static file interrupted")
		}
	}
}
