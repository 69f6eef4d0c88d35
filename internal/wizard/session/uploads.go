package session

import (
	"context"

	statsModel "github.com/festy23/trip_publisher/internal/statistics/model"
	"github.com/festy23/trip_publisher/internal/upload"
	"github.com/festy23/trip_publisher/internal/wizard/collections"
	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// beginUpload sets the uploading flag. The returned func clears it and must be deferred.
func (s *Session) beginUpload() (remaining int, done func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return 0, nil, err
	}
	if s.uploading {
		return 0, nil, model.ErrUploadInProgress
	}
	s.uploading = true
	return s.screenshots.Remaining(), func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}, nil
}

// Uploading reports whether a batch is running.
func (s *Session) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// UploadScreenshots uploads a batch of images and appends the successful ones in order.
// The uploading flag is cleared on every path.
func (s *Session) UploadScreenshots(ctx context.Context, files []upload.File) ([]model.Notice, error) {
	if len(files) == 0 {
		return nil, model.ErrNoFiles
	}
	remaining, done, err := s.beginUpload()
	if err != nil {
		return nil, err
	}
	defer done()

	res := s.deps.Uploader.UploadMany(ctx, upload.KindImage, files, remaining)
	s.record(ctx, statsModel.EventUploadSucceeded, len(res.Succeeded))
	s.record(ctx, statsModel.EventUploadFailed, len(res.Failed))

	assets := make([]*collections.Asset, 0, len(res.Succeeded))
	for _, up := range res.Succeeded {
		a := &collections.Asset{URL: up.URL, Name: up.Name, Preview: up.Preview}
		assets = append(assets, a)
	}

	notices := res.Notices
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.screenshots.Append(assets...); err != nil {
		notices = append(notices, model.Notice{Level: model.NoticeWarning, Message: err.Error()})
	}
	if len(assets) > 0 {
		s.clearErrors(model.FieldScreenshots)
	}
	return notices, nil
}

// RemoveScreenshot removes the screenshot at index and releases its preview.
func (s *Session) RemoveScreenshot(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	return s.screenshots.Remove(index)
}

// Preview returns the thumbnail of the screenshot at index.
func (s *Session) Preview(index int) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.screenshots.Get(index)
	if !ok || len(a.Preview) == 0 {
		return nil, false
	}
	return a.Preview, true
}

// UploadGuide uploads the optional PDF travel guide, replacing any previous one.
func (s *Session) UploadGuide(ctx context.Context, file upload.File) ([]model.Notice, error) {
	_, done, err := s.beginUpload()
	if err != nil {
		return nil, err
	}
	defer done()

	res := s.deps.Uploader.UploadMany(ctx, upload.KindPDF, []upload.File{file}, 1)
	s.record(ctx, statsModel.EventUploadSucceeded, len(res.Succeeded))
	s.record(ctx, statsModel.EventUploadFailed, len(res.Failed))

	if len(res.Succeeded) > 0 {
		s.mu.Lock()
		s.guideURL = res.Succeeded[0].URL
		s.clearErrors(model.FieldGuideURL)
		s.mu.Unlock()
	}
	return res.Notices, nil
}

// RemoveGuide clears the travel guide.
func (s *Session) RemoveGuide() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.guideURL = ""
	return nil
}
