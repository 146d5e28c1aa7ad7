package common

import (
	"mime/multipart"
	"net/http"

	"Souq/internal/core/images"
)

// MaxMultipartMemory bounds in-memory buffering while parsing uploads;
// larger parts spill to temp files.
const MaxMultipartMemory = 32 << 20

// OpenImages opens every uploaded file under the given multipart field and
// returns them as image uploads plus a cleanup func the caller must defer.
// A request without that field yields an empty slice, not an error.
func OpenImages(r *http.Request, field string) ([]images.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil, noop, nil
	}

	headers := r.MultipartForm.File[field]
	uploads := make([]images.Upload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	cleanup := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, noop, err
		}
		files = append(files, f)
		uploads = append(uploads, images.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}

	return uploads, cleanup, nil
}

// OpenImage is OpenImages for a single optional file field. Returns nil
// when the field is absent.
func OpenImage(r *http.Request, field string) (*images.Upload, func(), error) {
	uploads, cleanup, err := OpenImages(r, field)
	if err != nil {
		return nil, cleanup, err
	}
	if len(uploads) == 0 {
		return nil, cleanup, nil
	}
	return &uploads[0], cleanup, nil
}
