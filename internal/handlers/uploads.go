package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	maxImageSize = 5 << 20
	maxVideoSize = 50 << 20
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
	".mov":  {},
}

// saveImage stores an uploaded image under <uploadDir>/images and returns the
// relative path persisted on the product.
func saveImage(file *multipart.FileHeader, uploadDir string) (string, error) {
	return saveMediaFile(file, uploadDir, "images", imageExtensions, maxImageSize)
}

func saveVideo(file *multipart.FileHeader, uploadDir string) (string, error) {
	return saveMediaFile(file, uploadDir, "videos", videoExtensions, maxVideoSize)
}

func saveMediaFile(file *multipart.FileHeader, uploadDir, kind string, allowed map[string]struct{}, maxSize int64) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("file extension is required")
	}
	if _, ok := allowed[extension]; !ok {
		return "", fmt.Errorf("unsupported %s type: %s", kind, extension)
	}
	if file.Size > maxSize {
		return "", fmt.Errorf("%s file too large (max %dMB)", kind, maxSize>>20)
	}

	filename := uuid.NewString() + extension

	dir := filepath.Join(uploadDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveMediaFile: failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveMediaFile: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveMediaFile: failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveMediaFile: failed to save file %s: %v", fullPath, err)
		return "", err
	}

	return filepath.ToSlash(filepath.Join("uploads", kind, filename)), nil
}

// safeDeleteUpload removes a stored media file, refusing anything that
// resolves outside the upload root.
func safeDeleteUpload(uploadDir, relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}
	cleanRel = strings.TrimPrefix(cleanRel, "uploads/")

	cleanBase := filepath.Clean(uploadDir)
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(cleanRel))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
