package upload

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

const validFastqContent = "@read1\nATGC\n+\nIIII\n"

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := filepath.Join(t.TempDir(), "uploads")
	svc, err := NewService(logger, &domain.StorageConfig{
		UploadDir:   dir,
		MaxFileSize: 1024,
	})
	require.NoError(t, err)
	return svc, dir
}

func TestNewServiceCreatesDirectory(t *testing.T) {
	_, dir := newTestService(t)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestValidateFilename(t *testing.T) {
	svc, _ := newTestService(t)

	ok, msg := svc.ValidateFilename("Mowi_CAGE-04B_2025-08-15_S01.fastq")
	assert.True(t, ok)
	assert.Empty(t, msg)

	ok, msg = svc.ValidateFilename("badname.fastq")
	assert.False(t, ok)
	assert.Contains(t, msg, "PartnerID_CageID_YYYY-MM-DD_SampleID")
}

func TestSaveFile(t *testing.T) {
	svc, dir := newTestService(t)

	path, metadata, err := svc.SaveFile("Mowi_CAGE-04B_2025-08-15_S01.fastq", []byte(validFastqContent))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Mowi_CAGE-04B_2025-08-15_S01.fastq"), path)
	require.NotNil(t, metadata)
	assert.Equal(t, "Mowi", metadata.PartnerID)
	assert.Equal(t, "CAGE-04B", metadata.CageID)
	assert.Equal(t, "2025-08-15", metadata.SampleDate)
	assert.Equal(t, "S01", metadata.SampleID)
	assert.Equal(t, int64(len(validFastqContent)), metadata.FileSize)

	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, validFastqContent, string(stored))
}

func TestSaveFileInvalidName(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.SaveFile("badname.fastq", []byte(validFastqContent))
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "filename", verr.Field)
}

func TestSaveFileTooLarge(t *testing.T) {
	svc, _ := newTestService(t)

	content := make([]byte, 2048)
	content[0] = '@'
	_, _, err := svc.SaveFile("Mowi_CAGE-04B_2025-08-15_S01.fastq", content)
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "file", verr.Field)
}

func TestSaveFileBadFormat(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.SaveFile("Mowi_CAGE-04B_2025-08-15_S01.fastq", []byte("no header line\n"))
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSaveFileConflict(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.SaveFile("Mowi_CAGE-04B_2025-08-15_S01.fastq", []byte(validFastqContent))
	require.NoError(t, err)

	_, _, err = svc.SaveFile("Mowi_CAGE-04B_2025-08-15_S01.fastq", []byte(validFastqContent))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileExists))
}

func TestListFiles(t *testing.T) {
	svc, dir := newTestService(t)

	_, _, err := svc.SaveFile("Mowi_CAGE-04B_2025-08-15_S02.fastq", []byte(validFastqContent))
	require.NoError(t, err)
	_, _, err = svc.SaveFile("Mowi_CAGE-04B_2025-08-15_S01.fastq", []byte(validFastqContent))
	require.NoError(t, err)

	// Files with non-conforming names are excluded from the listing
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644))

	files, err := svc.ListFiles()
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "Mowi_CAGE-04B_2025-08-15_S01.fastq", files[0].Filename)
	assert.Equal(t, "Mowi_CAGE-04B_2025-08-15_S02.fastq", files[1].Filename)
	assert.Equal(t, "Mowi", files[0].PartnerID)
	assert.Equal(t, "CAGE-04B", files[0].CageID)
	assert.Greater(t, files[0].UploadTime, 0.0)
}

func TestListFilesEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	files, err := svc.ListFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}
