package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/apperror"
)

const maxMultipartMemory = 10 << 20

var (
	errInvalidBody = apperror.New(apperror.KindValidation, "Invalid request format", "DecodeRequest")
	errMissingData = apperror.New(apperror.KindValidation, "Field 'data' is required", "DecodeRequest")
	errInvalidFile = apperror.New(apperror.KindValidation, "Invalid file upload", "DecodeRequest")
	errInvalidPath = apperror.New(apperror.KindValidation, "Invalid path parameter", "DecodeRequest")
)

// decodeJSON decodes a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("Failed to decode request body", "error", err)
		return errInvalidBody
	}
	return nil
}

// decodeWithFile accepts either a JSON body or a multipart form whose 'data'
// field holds the JSON and whose fileField part is an optional attachment.
// The caller closes the returned file.
func decodeWithFile(r *http.Request, dst any, fileField string) (multipart.File, *multipart.FileHeader, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return nil, nil, decodeJSON(r, dst)
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		slog.Debug("Failed to parse multipart form", "error", err)
		return nil, nil, errInvalidBody
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		return nil, nil, errMissingData
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		slog.Debug("Failed to unmarshal JSON data", "error", err)
		return nil, nil, errInvalidBody
	}

	file, fileHeader, err := r.FormFile(fileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		slog.Debug("Failed to get file from form", "error", err)
		return nil, nil, errInvalidFile
	}
	return file, fileHeader, nil
}

// queryInt parses an optional integer query parameter, returning fallback when absent.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperror.New(apperror.KindValidation, "Query parameter '"+key+"' must be a number", "DecodeRequest")
	}
	return n, nil
}
