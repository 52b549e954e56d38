package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acoe/bonafide/internal/pkg/logger"
)

// Storage defines the operations the template module needs from file storage.
type Storage interface {
	// Save stores an uploaded file and returns the path it can be
	// retrieved under.
	Save(fileHeader *multipart.FileHeader) (string, error)

	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(filePath string) error

	// FullPath resolves a stored path to a filesystem path for serving.
	FullPath(filePath string) string
}

// LocalStorage stores certificate-template files on the local filesystem
// under a single bucket directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "public"), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// Save stores an uploaded file under public/<unix-ts>-<filename> and
// returns that relative path. The timestamp prefix prevents collisions
// between templates uploaded with the same filename.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	name := sanitizeFilename(fileHeader.Filename)
	storedPath := filepath.ToSlash(filepath.Join("public", fmt.Sprintf("%d-%s", time.Now().Unix(), name)))
	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(storedPath))

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("stored_as", storedPath).Msg("File saved")
	return storedPath, nil
}

// Delete removes a stored file. Returns nil if the file does not exist,
// so replacing a template's file is idempotent.
func (ls *LocalStorage) Delete(filePath string) error {
	if filePath == "" {
		return nil
	}

	physicalPath := ls.FullPath(filePath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}

// FullPath resolves a stored relative path to the filesystem path,
// refusing anything that escapes the storage root.
func (ls *LocalStorage) FullPath(filePath string) string {
	clean := filepath.Clean(filepath.FromSlash(filePath))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return ""
	}
	return filepath.Join(ls.basePath, clean)
}

// sanitizeFilename strips path separators and whitespace from an uploaded
// filename before it is embedded in the stored path.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." {
		return "upload"
	}
	return name
}
