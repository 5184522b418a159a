package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/techagentng/awaz/config"
)

const (
	MaxImageSize   = 5 << 20 // 5 MB
	feedImageSize  = 1080
	thumbnailWidth = 200
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the maximum allowed size of 5MB")
	ErrUnsupportedImage = errors.New("only JPEG, PNG and GIF images are allowed")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ObjectStore saves a blob under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type MediaService interface {
	// StoreComplaintImage normalises an uploaded image, stores it with a
	// thumbnail and returns both URLs.
	StoreComplaintImage(ctx context.Context, file *multipart.FileHeader, userID uint) (string, string, error)
}

type mediaService struct {
	store ObjectStore
}

func NewMediaService(store ObjectStore) MediaService {
	return &mediaService{store: store}
}

// NewObjectStore returns an S3 store when a bucket is configured and a store
// on the local disk otherwise.
func NewObjectStore(ctx context.Context, conf *config.Config) (ObjectStore, error) {
	if conf.S3Enabled() {
		return NewS3Store(ctx, conf)
	}
	log.Printf("S3 not configured, complaint images are stored under %s", conf.UploadDir)
	return &DiskStore{Dir: conf.UploadDir, BaseURL: strings.TrimRight(conf.BaseUrl, "/") + "/media"}, nil
}

func (m *mediaService) StoreComplaintImage(ctx context.Context, file *multipart.FileHeader, userID uint) (string, string, error) {
	if file.Size > MaxImageSize {
		return "", "", ErrImageTooLarge
	}
	f, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %v", err)
	}
	defer f.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read file: %v", err)
	}
	if len(fileBytes) > MaxImageSize {
		return "", "", ErrImageTooLarge
	}
	if !allowedImageTypes[http.DetectContentType(fileBytes)] {
		return "", "", ErrUnsupportedImage
	}

	feed, thumbnail, err := processImage(fileBytes)
	if err != nil {
		return "", "", err
	}

	name := generateUniqueFilename(".jpg")
	folder := fmt.Sprintf("complaints/%d", userID)
	imageURL, err := m.store.Put(ctx, path.Join(folder, "feed", name), feed, "image/jpeg")
	if err != nil {
		return "", "", fmt.Errorf("failed to store image: %v", err)
	}
	thumbnailURL, err := m.store.Put(ctx, path.Join(folder, "thumbnail", name), thumbnail, "image/jpeg")
	if err != nil {
		return "", "", fmt.Errorf("failed to store thumbnail: %v", err)
	}
	log.Printf("Stored complaint image for user %d: %s", userID, imageURL)
	return imageURL, thumbnailURL, nil
}

// processImage fits the image inside the feed size and derives a thumbnail of
// fixed width. Both are re-encoded as JPEG.
func processImage(fileBytes []byte) ([]byte, []byte, error) {
	img, err := imaging.Decode(bytes.NewReader(fileBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %v", err)
	}

	feedImg := imaging.Fit(img, feedImageSize, feedImageSize, imaging.Lanczos)
	thumbnailImg := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)

	var feed, thumbnail bytes.Buffer
	if err := imaging.Encode(&feed, feedImg, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, nil, fmt.Errorf("failed to encode feed image: %v", err)
	}
	if err := imaging.Encode(&thumbnail, thumbnailImg, imaging.JPEG); err != nil {
		return nil, nil, fmt.Errorf("failed to encode thumbnail image: %v", err)
	}
	return feed.Bytes(), thumbnail.Bytes(), nil
}

func generateUniqueFilename(extension string) string {
	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.New(), extension)
}

// S3Store uploads objects to a public-read S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(ctx context.Context, conf *config.Config) (*S3Store, error) {
	opts := []func(*fig.LoadOptions) error{fig.WithRegion(conf.AWSRegion)}
	if conf.AWSAccessKeyID != "" {
		opts = append(opts, fig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AWSAccessKeyID, conf.AWSSecretAccessKey, ""),
		))
	}
	cfg, err := fig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %v", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: conf.AWSBucket, region: conf.AWSRegion}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ACL:         "public-read",
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// DiskStore writes objects below Dir; they are served at BaseURL.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func (d *DiskStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	dest := filepath.Join(d.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("error creating folder: %v", err)
	}
	if err := os.WriteFile(dest, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return d.BaseURL + "/" + key, nil
}
