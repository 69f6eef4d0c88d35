package upload

import (
	"errors"
	"strings"

	"github.com/festy23/trip_publisher/internal/config"
)

// Kind selects an upload policy.
type Kind string

// Asset kinds.
const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
)

var (
	// ErrTooLarge indicates a file above the policy's byte limit.
	ErrTooLarge = errors.New("file is too large")
	// ErrUnsupportedType indicates a MIME type outside the policy's allowed set.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyFile indicates a zero-byte file.
	ErrEmptyFile = errors.New("file is empty")
	// ErrUnknownKind indicates a kind without a policy.
	ErrUnknownKind = errors.New("unknown upload kind")
)

// Policy constrains one asset kind.
type Policy struct {
	Kind        Kind
	MaxBytes    int64
	AllowedMIME []string
}

// Policies builds the image and PDF policies from configuration.
func Policies(cfg config.UploadConfig) map[Kind]Policy {
	return map[Kind]Policy{
		KindImage: {
			Kind:        KindImage,
			MaxBytes:    cfg.ImageMaxBytes,
			AllowedMIME: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		},
		KindPDF: {
			Kind:        KindPDF,
			MaxBytes:    cfg.PDFMaxBytes,
			AllowedMIME: []string{"application/pdf"},
		},
	}
}

// Allows reports whether a (possibly parameterised) MIME type is in the allowed set.
func (p Policy) Allows(contentType string) bool {
	ct := normalizeMIME(contentType)
	for _, m := range p.AllowedMIME {
		if m == ct {
			return true
		}
	}
	return false
}

// CheckDeclared applies the size and type checks that need no file content.
func (p Policy) CheckDeclared(size int64, contentType string) error {
	if size > p.MaxBytes {
		return ErrTooLarge
	}
	if !p.Allows(contentType) {
		return ErrUnsupportedType
	}
	return nil
}

func normalizeMIME(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return "image/jpeg"
	}
	return ct
}
