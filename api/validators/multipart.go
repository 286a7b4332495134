package validators

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
)

// PayloadField is the multipart part holding the JSON record fields.
const PayloadField = "payload"

// maxMultipartMemory is how much of a form is buffered before spilling to disk.
const maxMultipartMemory = 32 << 20

// SaveRequest is a record write: JSON fields plus any uploaded files.
// Close must be called once the handler is done with the files.
type SaveRequest struct {
	payload []byte
	Files   assets.Files

	form   *multipart.Form
	opened []multipart.File
}

// ReadSaveRequest accepts multipart/form-data with a "payload" JSON part and
// file parts named after record fields, or a plain JSON body without files.
// Callers bound r.Body with http.MaxBytesReader first so an oversized
// form fails before it is spooled to disk.
func ReadSaveRequest(r *http.Request) (*SaveRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBodyBytes+1))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
		}
		if len(body) > MaxJSONBodyBytes {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body too large")
		}
		return &SaveRequest{payload: body}, nil
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	req := &SaveRequest{form: r.MultipartForm, Files: assets.Files{}}
	if values := r.MultipartForm.Value[PayloadField]; len(values) > 0 {
		req.payload = []byte(values[0])
	}
	for field, headers := range r.MultipartForm.File {
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				req.Close()
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading upload "+header.Filename)
			}
			req.opened = append(req.opened, f)
			req.Files[field] = append(req.Files[field], assets.File{Name: header.Filename, Size: header.Size, Content: f})
		}
	}
	return req, nil
}

// Decode strictly decodes the JSON payload into dest and validates it.
func (s *SaveRequest) Decode(dest any) error {
	return decodeJSON(s.payload, dest)
}

// Close releases opened files and temporary form storage.
func (s *SaveRequest) Close() {
	if s == nil {
		return
	}
	for _, f := range s.opened {
		_ = f.Close()
	}
	s.opened = nil
	if s.form != nil {
		_ = s.form.RemoveAll()
	}
}
