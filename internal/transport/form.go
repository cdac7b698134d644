package transport

import (
	"errors"
	"net/http"
	"strings"

	"powermed-api/internal/service"
	"powermed-api/internal/storage"
)

var errNotAnImage = errors.New("only image files are allowed")

// parseForm parses a multipart or url-encoded request body. The catalog
// admin UI submits multipart forms; the same handlers accept plain form
// encoding.
func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return r.ParseMultipartForm(storage.MaxImageSize)
	}
	return r.ParseForm()
}

// formValue returns a form field and whether it was present at all.
// Presence matters for partial updates: an absent field is left untouched,
// an empty one is applied.
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm != nil {
		if vs, ok := r.MultipartForm.Value[key]; ok && len(vs) > 0 {
			return vs[0], true
		}
		return "", false
	}
	if vs, ok := r.Form[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

// formImage extracts the optional "image" file from a multipart form.
// Returns nil without error when no file was sent. The caller owns closing
// via the returned closer.
func formImage(r *http.Request) (*service.ImageUpload, func(), error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile || r.MultipartForm == nil {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		file.Close()
		return nil, func() {}, errNotAnImage
	}

	upload := &service.ImageUpload{
		Body:        file,
		ContentType: contentType,
	}
	return upload, func() { file.Close() }, nil
}

// parseFormBool mirrors the storefront's form semantics: the literal
// string "true" (or a native true serialized by the client) is true,
// anything else is false.
func parseFormBool(value string) bool {
	return value == "true"
}
