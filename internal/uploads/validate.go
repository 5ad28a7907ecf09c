// Package uploads receives résumé files and checks them before any extraction work.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/apperr"
	"resume-improver/internal/shared/i18n"
)

const (
	// MimePDF is the only accepted declared content type.
	MimePDF = "application/pdf"

	// DefaultMaxBytes is the largest accepted file.
	DefaultMaxBytes = 10 << 20

	// formOverhead leaves room for the other multipart fields around the file.
	formOverhead = 1 << 20
)

// File is an uploaded document and its declared metadata.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Validator checks declared metadata only.
type Validator struct {
	MaxBytes int64
}

// Validate checks f with the default size limit.
func Validate(f File) error {
	return Validator{}.Validate(f)
}

// Validate rejects a non-PDF content type regardless of size, then an oversized file.
func (v Validator) Validate(f File) error {
	if strings.TrimSpace(f.ContentType) != MimePDF {
		return apperr.Validation(i18n.KeyInvalidFileType)
	}
	if f.Size > v.maxBytes() {
		return apperr.Validation(i18n.KeyFileTooLarge)
	}
	return nil
}

func (v Validator) maxBytes() int64 {
	if v.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return v.MaxBytes
}

// ReadForm pulls the named file from a multipart request, validates its header
// and only then reads the bytes. The request body is capped slightly above the
// file limit.
func (v Validator) ReadForm(c *gin.Context, field string) (File, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, v.maxBytes()+formOverhead)

	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return File{}, apperr.Validation(i18n.KeyFileTooLarge)
		}
		return File{}, apperr.Validation(i18n.KeyFileRequired)
	}

	f := File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	if err := v.Validate(f); err != nil {
		return File{}, err
	}

	data, err := readAll(header)
	if err != nil {
		return File{}, fmt.Errorf("read upload: %w", err)
	}
	f.Data = data
	return f, nil
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}
