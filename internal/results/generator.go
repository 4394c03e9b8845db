package results

import (
	"context"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IA-PieroCV/Project-Thalassa/internal/analysis"
	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

// Generator runs the batch analysis over the upload directory and
// produces the aggregated results file consumed by the dashboard.
type Generator struct {
	logger            *logrus.Logger
	analysisService   *analysis.Service
	store             *Store // optional; nil disables history persistence
	resultsFile       string
	criticalThreshold float64
}

// Summary reports the outcome of a batch generation run.
type Summary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Entries   int `json:"entries"`
}

// NewGenerator creates a batch results generator. The store may be nil
// when history persistence is not wanted.
func NewGenerator(logger *logrus.Logger, analysisService *analysis.Service, store *Store, storage *domain.StorageConfig, analysisCfg *domain.AnalysisConfig) *Generator {
	return &Generator{
		logger:            logger,
		analysisService:   analysisService,
		store:             store,
		resultsFile:       filepath.Join(storage.ResultsDir, "results.json"),
		criticalThreshold: analysisCfg.CriticalRiskThreshold,
	}
}

// Run analyzes every fastq file in the upload directory, aggregates
// the per-cage results and overwrites results.json. A failed
// single-file analysis never aborts the batch.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	g.logger.WithField("results_file", g.resultsFile).Info("Starting batch analysis")

	paths, err := g.analysisService.DiscoverFiles()
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		g.logger.Warn("No fastq files found - writing empty results.json")
		if err := WriteResultsJSON([]domain.CageResult{}, g.resultsFile); err != nil {
			return nil, err
		}
		return &Summary{}, nil
	}

	summary := &Summary{}
	aggregated := make([]domain.CageResult, 0, len(paths))

	for _, path := range paths {
		filename := filepath.Base(path)
		g.logger.WithField("filename", filename).Info("Processing file")

		fileAnalysis, err := g.analysisService.AnalyzeFile(path)
		if err != nil {
			summary.Errors++
			g.logger.WithError(err).WithField("filename", filename).Error("Error processing file")
			continue
		}

		entry, ok := extractResultData(g.logger, fileAnalysis)
		if !ok {
			summary.Errors++
			g.logger.WithField("filename", filename).Warn("Skipped file - missing required data")
			continue
		}

		aggregated = append(aggregated, entry)
		summary.Processed++

		if g.store != nil {
			g.persist(ctx, fileAnalysis)
		}

		if entry.SRSRiskScore >= g.criticalThreshold {
			g.logger.WithFields(logrus.Fields{
				"cage_id":    entry.CageID,
				"risk_score": entry.SRSRiskScore,
				"threshold":  g.criticalThreshold,
				"filename":   filename,
			}).Error("CRITICAL RISK DETECTED - immediate action required")
		}
	}

	if err := WriteResultsJSON(aggregated, g.resultsFile); err != nil {
		return nil, err
	}
	summary.Entries = len(aggregated)

	g.logger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"errors":    summary.Errors,
		"entries":   summary.Entries,
	}).Info("Batch analysis complete")

	return summary, nil
}

// persist records the analysis in the history store; persistence
// failures are logged but never fail the batch.
func (g *Generator) persist(ctx context.Context, fa *domain.FileAnalysis) {
	rec := &domain.AnalysisRecord{
		Filename:     fa.Filename,
		CageID:       *fa.CageID,
		SRSRiskScore: *fa.SRSRiskScore,
		RiskLevel:    fa.RiskLevel,
	}
	if fa.PartnerID != nil {
		rec.PartnerID = *fa.PartnerID
	}
	if ts, err := time.Parse(time.RFC3339, fa.RiskAnalysisTimestamp); err == nil {
		rec.AnalyzedAt = ts
	}

	if err := g.store.SaveAnalysis(ctx, rec); err != nil {
		g.logger.WithError(err).WithField("filename", fa.Filename).Warn("Failed to persist analysis record")
	}
}

// extractResultData converts a file analysis into a results.json entry.
// Entries require a parsed cage ID and a completed risk score.
func extractResultData(logger *logrus.Logger, fa *domain.FileAnalysis) (domain.CageResult, bool) {
	if fa.CageID == nil {
		logger.WithField("filename", fa.Filename).Warn("Missing cage_id in analysis")
		return domain.CageResult{}, false
	}
	if fa.SRSRiskScore == nil {
		logger.WithField("filename", fa.Filename).Warn("Missing srs_risk_score in analysis")
		return domain.CageResult{}, false
	}

	lastUpdated := fa.RiskAnalysisTimestamp
	if lastUpdated == "" {
		lastUpdated = time.Now().Format(time.RFC3339)
	}

	return domain.CageResult{
		CageID:       *fa.CageID,
		SRSRiskScore: *fa.SRSRiskScore,
		LastUpdated:  lastUpdated,
	}, true
}
