package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lantern/internal/models"
	"lantern/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	uploadMaxDimension = 2048
	uploadWebPQuality  = 75
)

// UploadInput carries a raw file upload.
type UploadInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadResult describes the stored file.
type UploadResult struct {
	Path      string `json:"path"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
}

// UploadService validates image uploads, re-encodes them to WebP and tracks
// per-user storage usage against quotas.
type UploadService struct {
	uploadRepo repository.UploadRepository
	userRepo   repository.UserRepository
	uploadDir  string
}

// NewUploadService returns a new UploadService.
func NewUploadService(uploadRepo repository.UploadRepository, userRepo repository.UserRepository, uploadDir string) *UploadService {
	return &UploadService{
		uploadRepo: uploadRepo,
		userRepo:   userRepo,
		uploadDir:  uploadDir,
	}
}

// Upload stores an image for the user. The file must decode as an image, fit
// the user's per-file limit, and the re-encoded result must fit inside the
// user's remaining storage quota.
func (s *UploadService) Upload(ctx context.Context, userID uint, in UploadInput) (*UploadResult, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if int64(len(in.Content)) > user.MaxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %d bytes)", user.MaxUploadSizeBytes))
	}

	detected := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detected) {
		return nil, models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isAllowedImageMIME(provided) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	resized := resizeToFit(decoded, uploadMaxDimension, uploadMaxDimension)
	encoded, err := encodeWebP(resized, uploadWebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if user.UsedStorageBytes+int64(len(encoded)) > user.StorageQuotaBytes {
		return nil, models.NewValidationError("Storage quota exceeded")
	}

	hash := uploadHash(userID, encoded)
	rel := filepath.ToSlash(filepath.Join(hash[:2], hash+".webp"))
	abs := filepath.Join(s.uploadDir, rel)
	if err := writeBytesToFile(abs, encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	record := &models.UserUpload{
		UserID:    userID,
		Path:      rel,
		SizeBytes: int64(len(encoded)),
	}
	if err := s.uploadRepo.Record(ctx, record); err != nil {
		_ = os.Remove(abs)
		return nil, err
	}

	return &UploadResult{
		Path:      rel,
		URL:       "/uploads/" + rel,
		SizeBytes: record.SizeBytes,
	}, nil
}

// ListByUser returns the user's stored files.
func (s *UploadService) ListByUser(ctx context.Context, userID uint) ([]models.UserUpload, error) {
	return s.uploadRepo.ListByUser(ctx, userID)
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func uploadHash(userID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
