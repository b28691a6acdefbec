package httpapi

import (
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	apiconnect "github.com/osa030/onair/internal/api/connect"
	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/infra/assets"
	"github.com/osa030/onair/internal/infra/metrics"
)

// multipartMemory is the part of a multipart form kept in memory; the rest
// spills to temporary files.
const multipartMemory = 1 << 20

// imageHandler stores images posted as multipart/form-data with the fields
// "folder" and "file". It answers with the same JSON as UploadImage.
type imageHandler struct {
	authenticator apiconnect.Authenticator
	assets        *assets.Store
	metrics       *metrics.Metrics
}

func (h *imageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := apiconnect.BearerToken(r.Header)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	principal, err := h.authenticator.Authenticate(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if limit := h.assets.MaxBytes(); limit > 0 {
		// Leave room for the multipart envelope around the file
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	asset, err := h.assets.Save(r.Context(), r.FormValue("folder"), header.Filename, file)
	switch {
	case err == nil:
	case errors.Is(err, assets.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, assets.ErrInvalidFolder), errors.Is(err, assets.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		zlog.Error().Err(err).Msg("image upload failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.metrics.IncUploads()
	zlog.Info().Msgf("image uploaded: admin=%s url=%s", principal.Admin.ID, asset.URL)
	writeJSON(w, http.StatusCreated, onairv1.UploadImageResponse{
		URL:         asset.URL,
		ContentType: asset.ContentType,
		Size:        asset.Size,
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
