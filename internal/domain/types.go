package domain

import (
	"time"
)

// RiskLevel represents the categorical severity of an SRS risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"

	// RiskLevelFailed marks analyses that could not be completed.
	RiskLevelFailed RiskLevel = "analysis_failed"
)

// String implements the Stringer interface
func (r RiskLevel) String() string {
	return string(r)
}

// FileAnalysis is the complete analysis result for a single fastq file.
// Field names are fixed by the downstream results format and must not change.
type FileAnalysis struct {
	Filename     string  `json:"filename"`
	FullPath     string  `json:"full_path"`
	SizeBytes    int64   `json:"size_bytes"`
	ModifiedTime float64 `json:"modified_time"`
	IsCompressed bool    `json:"is_compressed"`

	// Identifier fields parsed from the filename. All nil when the
	// filename does not match the naming convention.
	PartnerID  *string `json:"partner_id"`
	CageID     *string `json:"cage_id"`
	SampleDate *string `json:"sample_date"`
	SampleID   *string `json:"sample_id"`

	FilenameValid bool   `json:"filename_valid"`
	ParseError    string `json:"parse_error,omitempty"`

	// Risk analysis results. SRSRiskScore is nil when scoring failed.
	SRSRiskScore          *float64  `json:"srs_risk_score"`
	RiskLevel             RiskLevel `json:"risk_level"`
	RiskAnalysisTimestamp string    `json:"risk_analysis_timestamp"`
	RiskAnalysisError     string    `json:"risk_analysis_error,omitempty"`
}

// CageResult is a single entry in the aggregated results.json consumed
// by the partner dashboard.
type CageResult struct {
	CageID       string  `json:"cageId"`
	SRSRiskScore float64 `json:"srsRiskScore"`
	LastUpdated  string  `json:"lastUpdated"`
}

// InvalidFileDetail describes a file whose name failed validation
type InvalidFileDetail struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// ValidationSummary aggregates filename validation over the upload directory
type ValidationSummary struct {
	TotalFiles         int                 `json:"total_files"`
	ValidFiles         int                 `json:"valid_files"`
	InvalidFiles       int                 `json:"invalid_files"`
	InvalidFileDetails []InvalidFileDetail `json:"invalid_file_details"`
}

// UploadedFileInfo describes a stored upload for listing endpoints
type UploadedFileInfo struct {
	Filename   string  `json:"filename"`
	PartnerID  string  `json:"partner_id"`
	CageID     string  `json:"cage_id"`
	SampleDate string  `json:"sample_date"`
	SampleID   string  `json:"sample_id"`
	FileSize   int64   `json:"file_size"`
	UploadTime float64 `json:"upload_time"`
}

// UploadMetadata is the metadata extracted from an accepted upload
type UploadMetadata struct {
	PartnerID        string `json:"partner_id"`
	CageID           string `json:"cage_id"`
	SampleDate       string `json:"sample_date"`
	SampleID         string `json:"sample_id"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
}

// AnalysisRecord is a persisted row in the analysis history store
type AnalysisRecord struct {
	ID           int64     `json:"id,omitempty"`
	Filename     string    `json:"filename"`
	CageID       string    `json:"cage_id"`
	PartnerID    string    `json:"partner_id"`
	SRSRiskScore float64   `json:"srs_risk_score"`
	RiskLevel    RiskLevel `json:"risk_level"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}
