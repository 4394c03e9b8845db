package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
	"github.com/IA-PieroCV/Project-Thalassa/pkg/fastq"
)

const defaultCacheSize = 128

// Service analyzes uploaded fastq files for SRS risk assessment.
// Each file analysis is independent; the service holds no mutable
// state beyond the result cache, which is safe for concurrent use.
type Service struct {
	logger    *logrus.Logger
	uploadDir string
	parser    *fastq.FilenameParser
	reader    *fastq.RecordReader
	scorer    *Scorer

	// cache holds completed analyses keyed by name+size+mtime so
	// unchanged files are not re-scored.
	cache *lru.Cache
}

// NewService creates a new analysis service
func NewService(logger *logrus.Logger, storage *domain.StorageConfig, analysisCfg *domain.AnalysisConfig) (*Service, error) {
	cacheSize := defaultCacheSize
	if analysisCfg != nil && analysisCfg.CacheSize > 0 {
		cacheSize = analysisCfg.CacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating analysis cache: %w", err)
	}

	svc := &Service{
		logger:    logger,
		uploadDir: storage.UploadDir,
		parser:    fastq.NewFilenameParser(logger),
		reader:    fastq.NewRecordReader(logger),
		scorer:    NewScorer(logger, analysisCfg),
		cache:     cache,
	}

	logger.WithField("upload_dir", svc.uploadDir).Info("Analysis service initialized")
	return svc, nil
}

// DiscoverFiles scans the upload directory for fastq files and returns
// their paths in sorted order.
func (s *Service) DiscoverFiles() ([]string, error) {
	info, err := os.Stat(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("upload path is not a directory: %s", s.uploadDir)
	}

	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("scanning upload directory %q: %w", s.uploadDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isFastqFile(entry.Name()) {
			files = append(files, filepath.Join(s.uploadDir, entry.Name()))
			s.logger.WithField("filename", entry.Name()).Debug("Found fastq file")
		}
	}
	sort.Strings(files)

	s.logger.WithFields(logrus.Fields{
		"count":      len(files),
		"upload_dir": s.uploadDir,
	}).Info("Discovered fastq files")

	return files, nil
}

// isFastqFile reports whether a filename carries a supported extension
func isFastqFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".fastq", ".fq", ".fastq.gz", ".fq.gz"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// GetFileInfo gathers file metadata and parsed filename components.
// A filename that fails to parse is not an error: the identifier
// fields stay nil and the parse error is recorded in the result.
func (s *Service) GetFileInfo(path string) (*domain.FileAnalysis, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %w", err)
	}

	base := filepath.Base(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}

	info := &domain.FileAnalysis{
		Filename:     base,
		FullPath:     abs,
		SizeBytes:    stat.Size(),
		ModifiedTime: float64(stat.ModTime().UnixNano()) / float64(time.Second),
		IsCompressed: strings.HasSuffix(strings.ToLower(base), ".gz"),
	}

	meta, err := s.parser.ParsePath(path)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"filename": base,
			"error":    err.Error(),
		}).Warn("Failed to parse filename")
		info.FilenameValid = false
		info.ParseError = err.Error()
		return info, nil
	}

	info.PartnerID = &meta.PartnerID
	info.CageID = &meta.CageID
	info.SampleDate = &meta.Date
	info.SampleID = &meta.SampleID
	info.FilenameValid = true

	s.logger.WithField("filename", base).Debug("Successfully parsed file metadata")
	return info, nil
}

// GetAllFilesInfo returns metadata for every fastq file in the upload
// directory. Files that disappear mid-scan are skipped, not fatal.
func (s *Service) GetAllFilesInfo() ([]*domain.FileAnalysis, error) {
	paths, err := s.DiscoverFiles()
	if err != nil {
		return nil, err
	}

	infos := make([]*domain.FileAnalysis, 0, len(paths))
	for _, path := range paths {
		info, err := s.GetFileInfo(path)
		if err != nil {
			s.logger.WithError(err).Warn("Skipping file due to error")
			continue
		}
		infos = append(infos, info)
	}

	s.logger.WithField("count", len(infos)).Info("Retrieved fastq file info")
	return infos, nil
}

// GetFilesByPartner returns file info for a specific partner
func (s *Service) GetFilesByPartner(partnerID string) ([]*domain.FileAnalysis, error) {
	all, err := s.GetAllFilesInfo()
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.FileAnalysis, 0)
	for _, info := range all {
		if info.FilenameValid && info.PartnerID != nil && *info.PartnerID == partnerID {
			matched = append(matched, info)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"partner_id": partnerID,
		"count":      len(matched),
	}).Info("Filtered files by partner")
	return matched, nil
}

// GetFilesByCage returns file info for a specific cage
func (s *Service) GetFilesByCage(cageID string) ([]*domain.FileAnalysis, error) {
	all, err := s.GetAllFilesInfo()
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.FileAnalysis, 0)
	for _, info := range all {
		if info.FilenameValid && info.CageID != nil && *info.CageID == cageID {
			matched = append(matched, info)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"cage_id": cageID,
		"count":   len(matched),
	}).Info("Filtered files by cage")
	return matched, nil
}

// GetInvalidFilenames returns info for files whose names failed to parse
func (s *Service) GetInvalidFilenames() ([]*domain.FileAnalysis, error) {
	all, err := s.GetAllFilesInfo()
	if err != nil {
		return nil, err
	}

	invalid := make([]*domain.FileAnalysis, 0)
	for _, info := range all {
		if !info.FilenameValid {
			invalid = append(invalid, info)
		}
	}
	return invalid, nil
}

// ValidateAllFilenames validates every fastq filename in the upload
// directory and returns a summary.
func (s *Service) ValidateAllFilenames() (*domain.ValidationSummary, error) {
	all, err := s.GetAllFilesInfo()
	if err != nil {
		return nil, err
	}

	summary := &domain.ValidationSummary{
		TotalFiles:         len(all),
		InvalidFileDetails: make([]domain.InvalidFileDetail, 0),
	}
	for _, info := range all {
		if info.FilenameValid {
			summary.ValidFiles++
			continue
		}
		summary.InvalidFiles++
		detail := domain.InvalidFileDetail{Filename: info.Filename, Error: info.ParseError}
		if detail.Error == "" {
			detail.Error = "unknown parsing error"
		}
		summary.InvalidFileDetails = append(summary.InvalidFileDetails, detail)
	}

	s.logger.WithFields(logrus.Fields{
		"valid": summary.ValidFiles,
		"total": summary.TotalFiles,
	}).Info("Filename validation summary")
	return summary, nil
}

// CalculateRiskScore reads sequence records from a fastq file and
// computes its SRS risk score.
func (s *Service) CalculateRiskScore(path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("cannot analyze non-existent file: %w", err)
	}

	base := filepath.Base(path)
	s.logger.WithField("filename", base).Info("Starting SRS risk analysis")

	sequences, err := s.reader.ReadRecordsFile(path)
	if err != nil {
		return 0, fmt.Errorf("SRS risk analysis for %q: %w", base, err)
	}
	if len(sequences) == 0 {
		s.logger.WithField("filename", base).Warn("No valid sequences found")
		return 0.0, nil
	}

	riskScore := s.scorer.Score(sequences)

	s.logger.WithFields(logrus.Fields{
		"filename":   base,
		"risk_score": riskScore,
	}).Info("SRS risk analysis complete")

	return riskScore, nil
}

// AnalyzeFile performs the complete analysis of a fastq file: file
// metadata, filename parsing and SRS risk scoring. Parsing and scoring
// are independent; a file with a malformed name is still scored. A
// scoring failure never propagates: it is recorded in the result with
// the analysis_failed risk level.
func (s *Service) AnalyzeFile(path string) (*domain.FileAnalysis, error) {
	info, err := s.GetFileInfo(path)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(cacheKey(info)); ok {
		s.logger.WithField("filename", info.Filename).Debug("Analysis cache hit")
		return cached.(*domain.FileAnalysis), nil
	}

	riskScore, err := s.CalculateRiskScore(path)
	info.RiskAnalysisTimestamp = time.Now().Format(time.RFC3339)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"filename": info.Filename,
			"error":    err.Error(),
		}).Error("Risk analysis failed")
		info.SRSRiskScore = nil
		info.RiskLevel = domain.RiskLevelFailed
		info.RiskAnalysisError = err.Error()
		return info, nil
	}

	info.SRSRiskScore = &riskScore
	info.RiskLevel = CategorizeRisk(riskScore)

	s.cache.Add(cacheKey(info), info)

	s.logger.WithFields(logrus.Fields{
		"filename":   info.Filename,
		"risk_score": riskScore,
		"risk_level": info.RiskLevel,
	}).Info("Complete analysis finished")

	return info, nil
}

// cacheKey identifies a file by name, size and modification time
func cacheKey(info *domain.FileAnalysis) string {
	return fmt.Sprintf("%s|%d|%.9f", info.FullPath, info.SizeBytes, info.ModifiedTime)
}
