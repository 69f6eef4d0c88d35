package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/festy23/trip_publisher/internal/config"
	"github.com/festy23/trip_publisher/internal/wizard/model"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, name, contentType, body)
	return args.String(0), args.Error(1)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func memFile(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func testConfig() config.UploadConfig {
	return config.UploadConfig{
		ImageMaxBytes: 10 << 20,
		PDFMaxBytes:   25 << 20,
		PreviewWidth:  16,
	}
}

func TestUploadMany_CapDropsExtraFiles(t *testing.T) {
	up := new(mockUploader)
	o := New(up, testConfig(), zaptest.NewLogger(t).Sugar())
	data := pngBytes(t, 4, 4)

	files := make([]File, 7)
	for i := range files {
		files[i] = memFile("f.png", "image/png", data)
	}
	up.On("Upload", mock.Anything, "f.png", "image/png", mock.Anything).Return("https://cdn/f.png", nil).Times(5)

	res := o.UploadMany(context.Background(), KindImage, files, 5)

	assert.Len(t, res.Succeeded, 5)
	assert.Empty(t, res.Failed)
	assert.Equal(t, 2, res.Dropped)
	assert.Contains(t, res.Notices, model.Notice{Level: model.NoticeInfo, Message: "2 dropped due to limit"})
	up.AssertExpectations(t)
}

func TestUploadMany_SequentialOrderAndIsolation(t *testing.T) {
	up := new(mockUploader)
	o := New(up, testConfig(), zaptest.NewLogger(t).Sugar())
	data := pngBytes(t, 4, 4)

	var order []string
	record := func(args mock.Arguments) { order = append(order, args.String(1)) }
	up.On("Upload", mock.Anything, "A.png", mock.Anything, mock.Anything).Run(record).Return("", errors.New("boom")).Once()
	up.On("Upload", mock.Anything, "B.png", mock.Anything, mock.Anything).Run(record).Return("https://cdn/B", nil).Once()
	up.On("Upload", mock.Anything, "C.png", mock.Anything, mock.Anything).Run(record).Return("https://cdn/C", nil).Once()

	res := o.UploadMany(context.Background(), KindImage, []File{
		memFile("A.png", "image/png", data),
		memFile("B.png", "image/png", data),
		memFile("C.png", "image/png", data),
	}, 5)

	assert.Equal(t, []string{"A.png", "B.png", "C.png"}, order)
	require.Len(t, res.Succeeded, 2)
	assert.Equal(t, "https://cdn/B", res.Succeeded[0].URL)
	assert.Equal(t, "https://cdn/C", res.Succeeded[1].URL)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "A.png", res.Failed[0].Name)

	var errorNotices []model.Notice
	for _, n := range res.Notices {
		if n.Level == model.NoticeError {
			errorNotices = append(errorNotices, n)
		}
	}
	require.Len(t, errorNotices, 1)
	assert.Contains(t, errorNotices[0].Message, "A.png")
}

func TestUploadMany_RejectsBeforeNetwork(t *testing.T) {
	up := new(mockUploader)
	cfg := testConfig()
	cfg.ImageMaxBytes = 1024
	o := New(up, cfg, zaptest.NewLogger(t).Sugar())

	big := memFile("big.png", "image/png", make([]byte, 10))
	big.Size = 2048
	text := memFile("notes.txt", "text/plain", []byte("hello"))
	spoofed := memFile("fake.png", "image/png", []byte("%PDF-1.4 not an image at all"))
	empty := memFile("empty.png", "image/png", nil)

	res := o.UploadMany(context.Background(), KindImage, []File{big, text, spoofed, empty}, 5)

	require.Len(t, res.Failed, 4)
	assert.ErrorIs(t, res.Failed[0].Err, ErrTooLarge)
	assert.ErrorIs(t, res.Failed[1].Err, ErrUnsupportedType)
	assert.ErrorIs(t, res.Failed[2].Err, ErrUnsupportedType)
	assert.ErrorIs(t, res.Failed[3].Err, ErrEmptyFile)
	assert.Empty(t, res.Succeeded)
	up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadMany_DeclaredSizeUnderstated(t *testing.T) {
	up := new(mockUploader)
	cfg := testConfig()
	cfg.ImageMaxBytes = 8
	o := New(up, cfg, zaptest.NewLogger(t).Sugar())

	f := memFile("liar.png", "image/png", pngBytes(t, 4, 4))
	f.Size = 1

	res := o.UploadMany(context.Background(), KindImage, []File{f}, 5)
	require.Len(t, res.Failed, 1)
	assert.ErrorIs(t, res.Failed[0].Err, ErrTooLarge)
	up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadMany_InvalidFilesDoNotConsumeCap(t *testing.T) {
	up := new(mockUploader)
	o := New(up, testConfig(), zaptest.NewLogger(t).Sugar())
	data := pngBytes(t, 4, 4)
	up.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/x", nil)

	res := o.UploadMany(context.Background(), KindImage, []File{
		memFile("bad.txt", "text/plain", []byte("x")),
		memFile("ok.png", "image/png", data),
	}, 1)

	assert.Len(t, res.Succeeded, 1)
	assert.Len(t, res.Failed, 1)
	assert.Zero(t, res.Dropped)
}

func TestUploadMany_PDF(t *testing.T) {
	up := new(mockUploader)
	o := New(up, testConfig(), zaptest.NewLogger(t).Sugar())
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	up.On("Upload", mock.Anything, "guide.pdf", "application/pdf", mock.Anything).Return("https://cdn/guide.pdf", nil).Once()

	res := o.UploadMany(context.Background(), KindPDF, []File{memFile("guide.pdf", "application/pdf", pdf)}, 1)

	require.Len(t, res.Succeeded, 1)
	assert.Nil(t, res.Succeeded[0].Preview)
	up.AssertExpectations(t)
}

func TestUploadMany_ImagePreview(t *testing.T) {
	up := new(mockUploader)
	o := New(up, testConfig(), zaptest.NewLogger(t).Sugar())
	up.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/p", nil)

	res := o.UploadMany(context.Background(), KindImage, []File{memFile("p.png", "image/png", pngBytes(t, 64, 32))}, 1)

	require.Len(t, res.Succeeded, 1)
	preview := res.Succeeded[0].Preview
	require.NotEmpty(t, preview)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(preview))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}

func TestUploadMany_CancelledContextFailsEachFile(t *testing.T) {
	up := new(mockUploader)
	cfg := testConfig()
	cfg.RatePerSecond = 1
	o := New(up, cfg, zaptest.NewLogger(t).Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := pngBytes(t, 2, 2)

	res := o.UploadMany(ctx, KindImage, []File{memFile("a.png", "image/png", data), memFile("b.png", "image/png", data)}, 5)

	assert.Empty(t, res.Succeeded)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "upload cancelled", res.Failed[0].Reason)
	assert.Equal(t, "b.png", res.Failed[1].Name)
	up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadMany_UnknownKind(t *testing.T) {
	o := New(new(mockUploader), testConfig(), zaptest.NewLogger(t).Sugar())
	res := o.UploadMany(context.Background(), Kind("video"), []File{{Name: "v.mp4"}}, 5)
	require.Len(t, res.Failed, 1)
	assert.ErrorIs(t, res.Failed[0].Err, ErrUnknownKind)
}

func TestPolicy_Allows(t *testing.T) {
	p := Policies(testConfig())[KindImage]
	assert.True(t, p.Allows("image/png"))
	assert.True(t, p.Allows("IMAGE/JPG"))
	assert.True(t, p.Allows("image/jpeg; charset=binary"))
	assert.False(t, p.Allows("application/pdf"))
	assert.False(t, p.Allows(""))
}
