package upload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
	"github.com/IA-PieroCV/Project-Thalassa/pkg/fastq"
)

// ErrFileExists is returned when an upload would overwrite a stored file
var ErrFileExists = errors.New("file already exists")

// Service handles fastq file uploads from partners
type Service struct {
	logger      *logrus.Logger
	uploadDir   string
	maxFileSize int64
	parser      *fastq.FilenameParser
}

// NewService creates a new upload service, creating the upload
// directory if needed.
func NewService(logger *logrus.Logger, storage *domain.StorageConfig) (*Service, error) {
	if err := os.MkdirAll(storage.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory %q: %w", storage.UploadDir, err)
	}

	return &Service{
		logger:      logger,
		uploadDir:   storage.UploadDir,
		maxFileSize: storage.MaxFileSize,
		parser:      fastq.NewFilenameParser(logger),
	}, nil
}

// ValidateFilename validates an upload filename against the naming
// convention. The returned message is empty when the name is valid.
func (s *Service) ValidateFilename(filename string) (bool, string) {
	ok, msg := s.parser.Validate(filename)
	if !ok {
		return false, fmt.Sprintf(
			"Filename must follow the pattern PartnerID_CageID_YYYY-MM-DD_SampleID.fastq (e.g., Mowi_CAGE-04B_2025-08-15_S01.fastq): %s", msg)
	}
	return true, ""
}

// SaveFile validates and stores uploaded file content. Validation
// failures return a ValidationError; an existing file returns
// ErrFileExists.
func (s *Service) SaveFile(filename string, content []byte) (string, *domain.UploadMetadata, error) {
	meta, err := s.parser.Parse(filename)
	if err != nil {
		return "", nil, domain.NewValidationError("filename", err.Error(), filename)
	}

	if int64(len(content)) > s.maxFileSize {
		return "", nil, domain.NewValidationError("file", fmt.Sprintf(
			"file exceeds maximum size of %d bytes", s.maxFileSize), len(content))
	}

	// Basic fastq format validation - records start with '@'
	if len(content) > 0 && !bytes.HasPrefix(bytes.TrimSpace(content), []byte("@")) {
		return "", nil, domain.NewValidationError("file", "invalid fastq file format, file should start with '@'", filename)
	}

	path := filepath.Join(s.uploadDir, filename)
	if _, err := os.Stat(path); err == nil {
		return "", nil, fmt.Errorf("%w: %s", ErrFileExists, filename)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		// Clean up a partial file if the write failed
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("failed to save file %q: %w", filename, err)
	}

	metadata := &domain.UploadMetadata{
		PartnerID:        meta.PartnerID,
		CageID:           meta.CageID,
		SampleDate:       meta.Date,
		SampleID:         meta.SampleID,
		OriginalFilename: filename,
		FileSize:         int64(len(content)),
	}

	s.logger.WithFields(logrus.Fields{
		"filename":   filename,
		"partner_id": metadata.PartnerID,
		"size":       metadata.FileSize,
	}).Info("File uploaded")

	return path, metadata, nil
}

// ListFiles returns metadata for every stored upload whose name
// matches the naming convention, sorted by filename.
func (s *Service) ListFiles() ([]domain.UploadedFileInfo, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("reading upload directory %q: %w", s.uploadDir, err)
	}

	files := make([]domain.UploadedFileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		meta, err := s.parser.Parse(entry.Name())
		if err != nil {
			continue
		}
		stat, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.UploadedFileInfo{
			Filename:   entry.Name(),
			PartnerID:  meta.PartnerID,
			CageID:     meta.CageID,
			SampleDate: meta.Date,
			SampleID:   meta.SampleID,
			FileSize:   stat.Size(),
			UploadTime: float64(stat.ModTime().UnixNano()) / float64(time.Second),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })

	return files, nil
}

// UploadDir returns the configured upload directory
func (s *Service) UploadDir() string {
	return s.uploadDir
}
