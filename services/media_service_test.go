package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/awaz/models"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader wraps content in a multipart form the way an upload arrives.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(MaxImageSize * 2)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func TestStoreComplaintImage_WritesFeedAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	service := NewMediaService(&DiskStore{Dir: dir, BaseURL: "http://awaz.test/media"})

	imageURL, thumbnailURL, err := service.StoreComplaintImage(context.Background(), fileHeader(t, "road.png", pngBytes(t, 1600, 400)), 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(imageURL, "http://awaz.test/media/complaints/5/feed/"))
	assert.True(t, strings.HasPrefix(thumbnailURL, "http://awaz.test/media/complaints/5/thumbnail/"))

	feedPath := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(imageURL, "http://awaz.test/media/")))
	feed, err := imaging.Open(feedPath)
	require.NoError(t, err)
	assert.Equal(t, feedImageSize, feed.Bounds().Dx())
	assert.Equal(t, 270, feed.Bounds().Dy())

	thumbPath := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(thumbnailURL, "http://awaz.test/media/")))
	thumb, err := imaging.Open(thumbPath)
	require.NoError(t, err)
	assert.Equal(t, thumbnailWidth, thumb.Bounds().Dx())
}

func TestStoreComplaintImage_Rejections(t *testing.T) {
	dir := t.TempDir()
	service := NewMediaService(&DiskStore{Dir: dir})

	_, _, err := service.StoreComplaintImage(context.Background(), fileHeader(t, "notes.txt", []byte("just some text")), 1)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	tooLarge := fileHeader(t, "big.png", pngBytes(t, 10, 10))
	tooLarge.Size = MaxImageSize + 1
	_, _, err = service.StoreComplaintImage(context.Background(), tooLarge, 1)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateComplaint_WithImage(t *testing.T) {
	env := newTestEnv(t)
	service := NewComplaintService(env.complaints, env.references, env.interactions,
		NewMediaService(&DiskStore{Dir: t.TempDir(), BaseURL: "http://awaz.test/media"}), env.events, env.conf)
	citizen := env.user(t, "citizen@awaz.test", models.RoleCitizen, nil)
	req := &models.ComplaintRequest{Title: "Pothole", Description: "See photo", CategoryID: env.category.ID, WardID: env.ward.ID}

	complaint, apiErr := service.CreateComplaint(context.Background(), citizen, req, fileHeader(t, "road.png", pngBytes(t, 300, 300)))
	require.Nil(t, apiErr)
	assert.NotEmpty(t, complaint.ImageURL)
	assert.NotEmpty(t, complaint.ThumbnailURL)

	_, apiErr = service.CreateComplaint(context.Background(), citizen, req, fileHeader(t, "notes.txt", []byte("not an image")))
	require.NotNil(t, apiErr)
	assert.Equal(t, ErrUnsupportedImage.Error(), apiErr.Message)
}
