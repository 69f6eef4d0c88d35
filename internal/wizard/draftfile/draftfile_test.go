package draftfile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/session"
)

const sample = `
fields:
  title: Ten days in Hokkaido
  destination: Hokkaido, Japan
  duration_days: 10
categories:
  - Adventure
activity_tags: [hiking, onsen, hiking]
team:
  - user_id: u1
    username: alice
  - name: Kenji
    role: Driver
communities: [asia-travel]
screenshots: [shots/a.png]
guide: guide.pdf
`

func TestParse(t *testing.T) {
	t.Run("full draft", func(t *testing.T) {
		d, err := Parse(strings.NewReader(sample), "/drafts")
		require.NoError(t, err)

		assert.Equal(t, "Ten days in Hokkaido", d.Fields["title"])
		assert.Equal(t, 10, d.Fields["duration_days"])
		assert.Equal(t, []string{"Adventure"}, d.Categories)
		require.Len(t, d.Team, 2)
		assert.Equal(t, model.MemberKindRegistered, d.Team[0].Request().Kind)
		assert.Equal(t, model.MemberKindUnregistered, d.Team[1].Request().Kind)
		assert.Equal(t, filepath.Join("/drafts", "shots/a.png"), d.resolve(d.Screenshots[0]))
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Parse(strings.NewReader("titel: oops\n"), "")
		require.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""), "")
		assert.ErrorIs(t, err, ErrEmptyDraft)
	})
}

func TestDraft_Apply(t *testing.T) {
	d, err := Parse(strings.NewReader(sample), "")
	require.NoError(t, err)

	sess := session.New("s1", "owner", session.Deps{Logger: zaptest.NewLogger(t).Sugar()})
	notices, err := d.Apply(sess)
	require.NoError(t, err)
	assert.Empty(t, notices)

	draft := sess.Draft()
	assert.Equal(t, "Hokkaido, Japan", draft.Fields.Destination)
	require.NotNil(t, draft.Fields.DurationDays)
	assert.Equal(t, 10, *draft.Fields.DurationDays)
	assert.Equal(t, []string{"hiking", "onsen"}, draft.ActivityTags)
	assert.Equal(t, []model.Category{model.CategoryAdventure}, draft.Categories)
	assert.Len(t, draft.TeamMembers, 2)
	assert.Equal(t, []string{"asia-travel"}, draft.Communities)
}

func TestDraft_ApplyRejectsUnknownField(t *testing.T) {
	d, err := Parse(strings.NewReader("fields:\n  subtitle: nope\n"), "")
	require.NoError(t, err)

	sess := session.New("s1", "owner", session.Deps{Logger: zaptest.NewLogger(t).Sugar()})
	_, err = d.Apply(sess)
	assert.ErrorIs(t, err, model.ErrUnknownField)
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestLocalFiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "shots", "a.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.pdf"), []byte("%PDF-1.4\n%EOF\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.yaml"), []byte(sample), 0o600))

	d, err := Load(filepath.Join(dir, "draft.yaml"))
	require.NoError(t, err)

	shots, err := d.ScreenshotFiles()
	require.NoError(t, err)
	require.Len(t, shots, 1)
	assert.Equal(t, "a.png", shots[0].Name)
	assert.Equal(t, "image/png", shots[0].ContentType)

	rc, err := shots[0].Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, shots[0].Size, int64(len(data)))

	guide, ok, err := d.GuideFile()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", guide.ContentType)
}

func TestLocalFile_Missing(t *testing.T) {
	_, err := LocalFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
