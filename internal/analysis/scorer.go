package analysis

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"regexp"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

// Risk factor weights. They sum to 1.0, so the weighted combination of
// bounded factors is itself bounded.
const (
	diversityWeight = 0.30
	gcWeight        = 0.25
	motifWeight     = 0.35
	qualityWeight   = 0.10
)

// Default per-factor sampling caps. Sampling is a deterministic prefix
// of the input, never a random subset.
const (
	defaultDiversitySampleSize = 1000
	defaultGCSampleSize        = 500
	defaultMotifSampleSize     = 200
	defaultQualitySampleSize   = 100
)

// pathogenMotifPatterns are gapped repeat signatures associated with
// SRS risk. The anchor sequences and gap lengths are heuristic
// placeholders carried over from the original assessment protocol and
// are deliberately not tuned.
var pathogenMotifPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ATGCGT.{10,20}CGTATG`),
	regexp.MustCompile(`(?i)GGCTAG.{5,15}CTAGGC`),
	regexp.MustCompile(`(?i)TTTAAA.{8,12}AAATTT`),
}

// Scorer computes heuristic SRS risk scores over fastq sequence records
type Scorer struct {
	logger              *logrus.Logger
	diversitySampleSize int
	gcSampleSize        int
	motifSampleSize     int
	qualitySampleSize   int
}

// NewScorer creates a new risk scorer. Zero or negative sample sizes in
// the configuration fall back to the defaults.
func NewScorer(logger *logrus.Logger, cfg *domain.AnalysisConfig) *Scorer {
	s := &Scorer{
		logger:              logger,
		diversitySampleSize: defaultDiversitySampleSize,
		gcSampleSize:        defaultGCSampleSize,
		motifSampleSize:     defaultMotifSampleSize,
		qualitySampleSize:   defaultQualitySampleSize,
	}
	if cfg != nil {
		if cfg.DiversitySampleSize > 0 {
			s.diversitySampleSize = cfg.DiversitySampleSize
		}
		if cfg.GCSampleSize > 0 {
			s.gcSampleSize = cfg.GCSampleSize
		}
		if cfg.MotifSampleSize > 0 {
			s.motifSampleSize = cfg.MotifSampleSize
		}
		if cfg.QualitySampleSize > 0 {
			s.qualitySampleSize = cfg.QualitySampleSize
		}
	}
	return s
}

// Score analyzes sequence records for patterns associated with SRS risk
// and returns a score in [0, 1]. An empty record list scores 0.0.
func (s *Scorer) Score(sequences []string) float64 {
	if len(sequences) == 0 {
		return 0.0
	}

	diversityScore := s.diversityFactor(sequences)
	gcScore := s.gcContentFactor(sequences)
	motifScore := s.motifFactor(sequences)
	qualityScore := s.qualityFactor(sequences)

	riskScore := diversityWeight*diversityScore +
		gcWeight*gcScore +
		motifWeight*motifScore +
		qualityWeight*qualityScore

	// Defensive clamp; the weights sum to 1.0 so this should already hold.
	riskScore = math.Max(0.0, math.Min(1.0, riskScore))

	s.logger.WithFields(logrus.Fields{
		"diversity":  diversityScore,
		"gc_content": gcScore,
		"motifs":     motifScore,
		"quality":    qualityScore,
		"final":      riskScore,
	}).Debug("Risk factor breakdown")

	return riskScore
}

// CategorizeRisk maps a numerical risk score onto a risk level band.
// Band boundaries are inclusive on the lower threshold.
func CategorizeRisk(score float64) domain.RiskLevel {
	switch {
	case score >= 0.8:
		return domain.RiskLevelCritical
	case score >= 0.6:
		return domain.RiskLevelHigh
	case score >= 0.4:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelLow
	}
}

// diversityFactor measures sequence repetitiveness. Low diversity
// (near-identical reads) is treated as the risk signal, so the ratio
// is inverted. Fingerprint collisions are an accepted approximation.
func (s *Scorer) diversityFactor(sequences []string) float64 {
	if len(sequences) < 2 {
		return 0.0
	}

	sampled := prefixSample(sequences, s.diversitySampleSize)
	unique := make(map[string]struct{}, len(sampled))
	for _, seq := range sampled {
		sum := md5.Sum([]byte(seq))
		unique[hex.EncodeToString(sum[:])[:8]] = struct{}{}
	}

	diversityRatio := float64(len(unique)) / float64(len(sampled))
	return math.Max(0.0, 1.0-diversityRatio)
}

// gcContentFactor flags extreme base-composition skew. Average GC
// fractions inside the [0.3, 0.7] band score zero.
func (s *Scorer) gcContentFactor(sequences []string) float64 {
	sampled := prefixSample(sequences, s.gcSampleSize)

	gcContents := make([]float64, 0, len(sampled))
	for _, seq := range sampled {
		gcContents = append(gcContents, gcFraction(seq))
	}
	if len(gcContents) == 0 {
		return 0.0
	}

	avgGC, err := stats.Mean(gcContents)
	if err != nil {
		return 0.0
	}

	if avgGC < 0.3 || avgGC > 0.7 {
		return math.Min(1.0, math.Abs(avgGC-0.5)*2.0)
	}
	return 0.0
}

// motifFactor scans for the pathogen-associated gapped repeat
// signatures and converts the match density into a bounded factor.
func (s *Scorer) motifFactor(sequences []string) float64 {
	sampled := prefixSample(sequences, s.motifSampleSize)
	if len(sampled) == 0 {
		return 0.0
	}

	totalMatches := 0
	for _, seq := range sampled {
		for _, pattern := range pathogenMotifPatterns {
			totalMatches += len(pattern.FindAllString(seq, -1))
		}
	}

	motifDensity := float64(totalMatches) / float64(len(sampled))
	return math.Min(1.0, motifDensity*10.0)
}

// qualityFactor measures the fraction of ambiguous N bases; a high
// N content reduces the reliability of the other factors.
func (s *Scorer) qualityFactor(sequences []string) float64 {
	sampled := prefixSample(sequences, s.qualitySampleSize)
	if len(sampled) == 0 {
		return 0.0
	}

	nContents := make([]float64, 0, len(sampled))
	for _, seq := range sampled {
		if len(seq) == 0 {
			nContents = append(nContents, 0.0)
			continue
		}
		n := strings.Count(seq, "N")
		nContents = append(nContents, float64(n)/float64(len(seq)))
	}

	avgN, err := stats.Mean(nContents)
	if err != nil {
		return 0.0
	}
	return math.Min(1.0, avgN*5.0)
}

// prefixSample returns at most the first n elements in input order
func prefixSample(sequences []string, n int) []string {
	if len(sequences) <= n {
		return sequences
	}
	return sequences[:n]
}

// gcFraction returns the G+C fraction of a sequence; empty input is 0.0
func gcFraction(seq string) float64 {
	if len(seq) == 0 {
		return 0.0
	}
	gc := strings.Count(seq, "G") + strings.Count(seq, "C")
	return float64(gc) / float64(len(seq))
}
