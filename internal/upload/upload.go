// Package upload validates and uploads wizard assets one file at a time.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/festy23/trip_publisher/internal/config"
	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// Uploader stores one file remotely and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

// File is a selected file. Size and ContentType are the declared values.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Uploaded is a file that reached the storage endpoint.
type Uploaded struct {
	Name        string
	URL         string
	ContentType string
	// Preview is a JPEG thumbnail for decodable images, nil otherwise.
	Preview []byte
}

// Failure is a file that was rejected or failed to upload.
type Failure struct {
	Name   string
	Reason string
	Err    error
}

// Result is the outcome of one batch. Succeeded is in submission order.
type Result struct {
	Succeeded []Uploaded
	Failed    []Failure
	Dropped   int
	Notices   []model.Notice
}

// Orchestrator uploads batches sequentially.
type Orchestrator struct {
	uploader     Uploader
	policies     map[Kind]Policy
	limiter      *rate.Limiter
	previewWidth int
	logger       *zap.SugaredLogger
}

// New creates an orchestrator. A positive RatePerSecond paces uploads inside a batch.
func New(uploader Uploader, cfg config.UploadConfig, logger *zap.SugaredLogger) *Orchestrator {
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return &Orchestrator{
		uploader:     uploader,
		policies:     Policies(cfg),
		limiter:      limiter,
		previewWidth: cfg.PreviewWidth,
		logger:       logger,
	}
}

// Policy returns the policy of kind.
func (o *Orchestrator) Policy(kind Kind) (Policy, bool) {
	p, ok := o.policies[kind]
	return p, ok
}

// UploadMany validates files, keeps at most remaining of the valid ones and uploads them
// one after another. A failing file never stops the batch.
func (o *Orchestrator) UploadMany(ctx context.Context, kind Kind, files []File, remaining int) *Result {
	res := &Result{}
	policy, ok := o.policies[kind]
	if !ok {
		for _, f := range files {
			res.fail(f.Name, ErrUnknownKind)
		}
		return res
	}

	accepted := make([]File, 0, len(files))
	for _, f := range files {
		if err := policy.CheckDeclared(f.Size, f.ContentType); err != nil {
			res.fail(f.Name, err)
			continue
		}
		if len(accepted) >= remaining {
			res.Dropped++
			continue
		}
		accepted = append(accepted, f)
	}

	if res.Dropped > 0 {
		res.Notices = append(res.Notices, model.Notice{
			Level:   model.NoticeInfo,
			Message: fmt.Sprintf("%d dropped due to limit", res.Dropped),
		})
	}

	for _, f := range accepted {
		up, err := o.uploadOne(ctx, policy, f)
		if err != nil {
			o.logger.Warnw("Upload failed", "file", f.Name, "kind", kind, "error", err)
			res.fail(f.Name, err)
			continue
		}
		res.Succeeded = append(res.Succeeded, *up)
	}

	if n := len(res.Succeeded); n > 0 {
		res.Notices = append(res.Notices, model.Notice{
			Level:   model.NoticeSuccess,
			Message: fmt.Sprintf("%d file(s) uploaded", n),
		})
	}

	o.logger.Infow("Upload batch finished",
		"kind", kind,
		"succeeded", len(res.Succeeded),
		"failed", len(res.Failed),
		"dropped", res.Dropped,
	)
	return res
}

func (o *Orchestrator) uploadOne(ctx context.Context, policy Policy, f File) (*Uploaded, error) {
	data, err := readLimited(f, policy.MaxBytes)
	if err != nil {
		return nil, err
	}

	detected := mimetype.Detect(data)
	if !policy.Allows(detected.String()) {
		return nil, fmt.Errorf("%w: content is %s", ErrUnsupportedType, detected.String())
	}
	contentType := normalizeMIME(detected.String())

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for upload slot: %w", err)
		}
	}

	url, err := o.uploader.Upload(ctx, f.Name, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	up := &Uploaded{Name: f.Name, URL: url, ContentType: contentType}
	if policy.Kind == KindImage {
		preview, err := Thumbnail(data, o.previewWidth)
		if err != nil {
			o.logger.Debugw("Preview skipped", "file", f.Name, "error", err)
		} else {
			up.Preview = preview
		}
	}
	return up, nil
}

func readLimited(f File, limit int64) ([]byte, error) {
	if f.Open == nil {
		return nil, errors.New("file has no content")
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}

func (r *Result) fail(name string, err error) {
	r.Failed = append(r.Failed, Failure{Name: name, Reason: reason(err), Err: err})
	r.Notices = append(r.Notices, model.Notice{
		Level:   model.NoticeError,
		Message: fmt.Sprintf("%s: %s", name, reason(err)),
	})
}

func reason(err error) string {
	var apiErr *model.APIError
	switch {
	case errors.Is(err, ErrTooLarge):
		return ErrTooLarge.Error()
	case errors.Is(err, ErrUnsupportedType):
		return ErrUnsupportedType.Error()
	case errors.Is(err, ErrEmptyFile):
		return ErrEmptyFile.Error()
	case errors.As(err, &apiErr):
		return "upload rejected: " + apiErr.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "upload cancelled"
	default:
		return "upload failed"
	}
}
