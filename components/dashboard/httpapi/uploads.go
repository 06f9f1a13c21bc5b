package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
)

// ImageFormField is the multipart field carrying listing images.
const ImageFormField = "files"

// MaxUploadMemory caps the multipart form held in memory per request.
const MaxUploadMemory = 32 << 20

var errNoFiles = errors.New("httpapi: no files in upload")

// ReadImageFile loads a multipart file header into an ImageFile.
func ReadImageFile(header *multipart.FileHeader) (dashboard.ImageFile, error) {
	file, err := header.Open()
	if err != nil {
		return dashboard.ImageFile{}, fmt.Errorf("httpapi: open upload %s: %w", header.Filename, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return dashboard.ImageFile{}, fmt.Errorf("httpapi: read upload %s: %w", header.Filename, err)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return dashboard.ImageFile{Name: header.Filename, ContentType: contentType, Data: data}, nil
}

// ImageFilesFromForm reads every part of the images field.
func ImageFilesFromForm(form *multipart.Form) ([]dashboard.ImageFile, error) {
	if form == nil || len(form.File[ImageFormField]) == 0 {
		return nil, errNoFiles
	}
	files := make([]dashboard.ImageFile, 0, len(form.File[ImageFormField]))
	for _, header := range form.File[ImageFormField] {
		file, err := ReadImageFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// IsMultipart reports whether a Content-Type header names a multipart form.
func IsMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "multipart/form-data")
}

// HandleUploadImages accepts a multipart form with one or more "files" parts.
func (h *Handlers) HandleUploadImages(w http.ResponseWriter, r *http.Request, cabinetID string) {
	if err := r.ParseMultipartForm(MaxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
		return
	}
	files, err := ImageFilesFromForm(r.MultipartForm)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
		return
	}
	urls, err := h.API.UploadImages(r.Context(), cabinetID, files)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"urls": urls})
}
