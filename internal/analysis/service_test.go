package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

const validFastqContent = "@read1\nATGC\n+\nIIII\n@read2\nGGCC\n+\nIIII\n"

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	dir := t.TempDir()
	svc, err := NewService(newTestLogger(), &domain.StorageConfig{UploadDir: dir}, nil)
	require.NoError(t, err)
	return svc, dir
}

func writeUpload(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscoverFiles(t *testing.T) {
	svc, dir := newTestService(t)

	writeUpload(t, dir, "Mowi_CAGE-04B_2025-08-15_S02.fastq", validFastqContent)
	writeUpload(t, dir, "Mowi_CAGE-04B_2025-08-15_S01.fastq", validFastqContent)
	writeUpload(t, dir, "notes.txt", "not a fastq file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.fastq"), 0o755))

	files, err := svc.DiscoverFiles()
	require.NoError(t, err)

	require.Len(t, files, 2)
	// Sorted order, directories and non-fastq files excluded
	assert.Equal(t, filepath.Join(dir, "Mowi_CAGE-04B_2025-08-15_S01.fastq"), files[0])
	assert.Equal(t, filepath.Join(dir, "Mowi_CAGE-04B_2025-08-15_S02.fastq"), files[1])
}

func TestDiscoverFilesMissingDirectory(t *testing.T) {
	svc, err := NewService(newTestLogger(), &domain.StorageConfig{UploadDir: "/nonexistent/thalassa-uploads"}, nil)
	require.NoError(t, err)

	_, err = svc.DiscoverFiles()
	require.Error(t, err)
}

func TestGetFileInfo(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeUpload(t, dir, "Mowi_CAGE-04B_2025-08-15_S01.fastq", validFastqContent)

	info, err := svc.GetFileInfo(path)
	require.NoError(t, err)

	assert.Equal(t, "Mowi_CAGE-04B_2025-08-15_S01.fastq", info.Filename)
	assert.True(t, filepath.IsAbs(info.FullPath))
	assert.Equal(t, int64(len(validFastqContent)), info.SizeBytes)
	assert.Greater(t, info.ModifiedTime, 0.0)
	assert.False(t, info.IsCompressed)
	assert.True(t, info.FilenameValid)
	require.NotNil(t, info.PartnerID)
	assert.Equal(t, "Mowi", *info.PartnerID)
	require.NotNil(t, info.CageID)
	assert.Equal(t, "CAGE-04B", *info.CageID)
	require.NotNil(t, info.SampleDate)
	assert.Equal(t, "2025-08-15", *info.SampleDate)
	require.NotNil(t, info.SampleID)
	assert.Equal(t, "S01", *info.SampleID)
	assert.Empty(t, info.ParseError)
}

func TestGetFileInfoInvalidName(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeUpload(t, dir, "badname.fastq", validFastqContent)

	info, err := svc.GetFileInfo(path)
	require.NoError(t, err)

	assert.False(t, info.FilenameValid)
	assert.NotEmpty(t, info.ParseError)
	assert.Nil(t, info.PartnerID)
	assert.Nil(t, info.CageID)
}

func TestGetFileInfoMissingFile(t *testing.T) {
	svc, dir := newTestService(t)

	_, err := svc.GetFileInfo(filepath.Join(dir, "absent.fastq"))
	require.Error(t, err)
}

func TestGetFilesByPartnerAndCage(t *testing.T) {
	svc, dir := newTestService(t)

	writeUpload(t, dir, "Mowi_CAGE-01_2025-08-15_S01.fastq", validFastqContent)
	writeUpload(t, dir, "Mowi_CAGE-02_2025-08-15_S01.fastq", validFastqContent)
	writeUpload(t, dir, "Leroy_CAGE-01_2025-08-15_S01.fastq", validFastqContent)
	writeUpload(t, dir, "badname.fastq", validFastqContent)

	byPartner, err := svc.GetFilesByPartner("Mowi")
	require.NoError(t, err)
	assert.Len(t, byPartner, 2)

	byCage, err := svc.GetFilesByCage("CAGE-01")
	require.NoError(t, err)
	assert.Len(t, byCage, 2)

	none, err := svc.GetFilesByPartner("Cermaq")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestValidateAllFilenames(t *testing.T) {
	svc, dir := newTestService(t)

	writeUpload(t, dir, "Mowi_CAGE-01_2025-08-15_S01.fastq", validFastqContent)
	writeUpload(t, dir, "badname.fastq", validFastqContent)
	writeUpload(t, dir, "Mowi_CAGE-01_2025-13-15_S01.fastq", validFastqContent)

	summary, err := svc.ValidateAllFilenames()
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 1, summary.ValidFiles)
	assert.Equal(t, 2, summary.InvalidFiles)
	require.Len(t, summary.InvalidFileDetails, 2)
	for _, detail := range summary.InvalidFileDetails {
		assert.NotEmpty(t, detail.Filename)
		assert.NotEmpty(t, detail.Error)
	}

	invalid, err := svc.GetInvalidFilenames()
	require.NoError(t, err)
	assert.Len(t, invalid, 2)
}

func TestCalculateRiskScore(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeUpload(t, dir, "Mowi_CAGE-01_2025-08-15_S01.fastq", validFastqContent)

	score, err := svc.CalculateRiskScore(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestCalculateRiskScoreNoSequences(t *testing.T) {
	svc, dir := newTestService(t)

	// Sequence lines all fail the alphabet check, leaving no records.
	path := writeUpload(t, dir, "Mowi_CAGE-01_2025-08-15_S01.fastq", "@h1\n1234\n+\nIIII\n")

	score, err := svc.CalculateRiskScore(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestAnalyzeFile(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeUpload(t, dir, "Mowi_CAGE-04B_2025-08-15_S01.fastq", validFastqContent)

	info, err := svc.AnalyzeFile(path)
	require.NoError(t, err)

	assert.True(t, info.FilenameValid)
	require.NotNil(t, info.SRSRiskScore)
	assert.GreaterOrEqual(t, *info.SRSRiskScore, 0.0)
	assert.LessOrEqual(t, *info.SRSRiskScore, 1.0)
	assert.Equal(t, CategorizeRisk(*info.SRSRiskScore), info.RiskLevel)
	assert.NotEmpty(t, info.RiskAnalysisTimestamp)
	assert.Empty(t, info.RiskAnalysisError)
}

func TestAnalyzeFileInvalidNameStillScored(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeUpload(t, dir, "badname.fastq", validFastqContent)

	info, err := svc.AnalyzeFile(path)
	require.NoError(t, err)

	assert.False(t, info.FilenameValid)
	assert.NotEmpty(t, info.ParseError)
	require.NotNil(t, info.SRSRiskScore)
	assert.NotEqual(t, domain.RiskLevelFailed, info.RiskLevel)
}

func TestAnalyzeFileCorruptGzip(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeUpload(t, dir, "Mowi_CAGE-01_2025-08-15_S01.fastq.gz", "not gzip data")

	info, err := svc.AnalyzeFile(path)
	require.NoError(t, err)

	assert.Nil(t, info.SRSRiskScore)
	assert.Equal(t, domain.RiskLevelFailed, info.RiskLevel)
	assert.NotEmpty(t, info.RiskAnalysisError)
	assert.NotEmpty(t, info.RiskAnalysisTimestamp)
}

func TestAnalyzeFileCached(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeUpload(t, dir, "Mowi_CAGE-04B_2025-08-15_S01.fastq", validFastqContent)

	first, err := svc.AnalyzeFile(path)
	require.NoError(t, err)

	second, err := svc.AnalyzeFile(path)
	require.NoError(t, err)

	// Unchanged file resolves from cache to the same result value.
	assert.Same(t, first, second)
}
