package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxImageSize caps uploaded room/ad images at 8MB.
const MaxImageSize = 8 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// SaveUploadedImage validates and stores a multipart image under
// uploads/<subdir>/ and returns the path served by the static route,
// e.g. "/uploads/rooms/1712345678901234567.jpg".
func SaveUploadedImage(file *multipart.FileHeader, subdir string) (string, error) {
	if file.Size > MaxImageSize {
		return "", validationErr("file", fmt.Sprintf("exceeds the %dMB limit", MaxImageSize>>20))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", validationErr("file", "only jpg, jpeg, png, webp and gif are accepted")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join("uploads", subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	fullpath := filepath.Join(dir, filename)

	dst, err := os.Create(fullpath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullpath)
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/" + filepath.ToSlash(fullpath), nil
}
