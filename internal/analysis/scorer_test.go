package analysis

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestScorer() *Scorer {
	return NewScorer(newTestLogger(), nil)
}

func repeatSequences(seq string, n int) []string {
	sequences := make([]string, n)
	for i := range sequences {
		sequences[i] = seq
	}
	return sequences
}

func distinctSequences(n int) []string {
	bases := []string{"A", "C", "G", "T"}
	sequences := make([]string, n)
	for i := range sequences {
		var sb strings.Builder
		for j := 0; j < 12; j++ {
			sb.WriteString(bases[(i/intPow(4, j))%4])
		}
		sequences[i] = sb.String()
	}
	return sequences
}

func intPow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func TestScoreEmptyInput(t *testing.T) {
	scorer := newTestScorer()

	assert.Equal(t, 0.0, scorer.Score(nil))
	assert.Equal(t, 0.0, scorer.Score([]string{}))
}

func TestScoreBounds(t *testing.T) {
	scorer := newTestScorer()

	inputs := [][]string{
		repeatSequences("ATGC", 100),
		repeatSequences("NNNNNNNN", 50),
		repeatSequences("GGGGCCCC", 50),
		distinctSequences(200),
		{"ATGCGT" + strings.Repeat("A", 15) + "CGTATG"},
	}
	for i, sequences := range inputs {
		score := scorer.Score(sequences)
		assert.GreaterOrEqual(t, score, 0.0, "input %d", i)
		assert.LessOrEqual(t, score, 1.0, "input %d", i)
	}
}

func TestDiversityFactor(t *testing.T) {
	scorer := newTestScorer()

	t.Run("Identical records score high", func(t *testing.T) {
		factor := scorer.diversityFactor(repeatSequences("ATGCATGC", 10))
		assert.Greater(t, factor, 0.8)
	})

	t.Run("Distinct records score low", func(t *testing.T) {
		factor := scorer.diversityFactor([]string{"AAAA", "CCCC", "GGGG", "TTTT", "ACGT"})
		assert.Less(t, factor, 0.5)
	})

	t.Run("Single record scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.diversityFactor([]string{"ATGC"}))
	})

	t.Run("Sampling caps the working set", func(t *testing.T) {
		scorer := NewScorer(newTestLogger(), &domain.AnalysisConfig{DiversitySampleSize: 10})
		// First 10 records are identical; the distinct tail is ignored.
		sequences := repeatSequences("ATGCATGC", 10)
		sequences = append(sequences, distinctSequences(100)...)
		assert.Greater(t, scorer.diversityFactor(sequences), 0.8)
	})
}

func TestGCContentFactor(t *testing.T) {
	scorer := newTestScorer()

	t.Run("All AT skew scores high", func(t *testing.T) {
		factor := scorer.gcContentFactor(repeatSequences("ATATATAT", 10))
		assert.Greater(t, factor, 0.5)
	})

	t.Run("All GC skew scores high", func(t *testing.T) {
		factor := scorer.gcContentFactor(repeatSequences("GCGCGCGC", 10))
		assert.Greater(t, factor, 0.5)
	})

	t.Run("Balanced composition scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.gcContentFactor(repeatSequences("ATGC", 10)))
	})

	t.Run("Band edges score zero", func(t *testing.T) {
		// 30% and 70% GC both sit inside the closed normal band.
		assert.Equal(t, 0.0, scorer.gcContentFactor(repeatSequences("GCCAAAAAAT", 5)))
		assert.Equal(t, 0.0, scorer.gcContentFactor(repeatSequences("GGGGGGCATA", 5)))
	})
}

func TestMotifFactor(t *testing.T) {
	scorer := newTestScorer()

	t.Run("No motifs", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.motifFactor(repeatSequences("ACACACACAC", 10)))
	})

	t.Run("Gapped motif detected", func(t *testing.T) {
		seq := "ATGCGT" + strings.Repeat("A", 15) + "CGTATG"
		factor := scorer.motifFactor([]string{seq})
		assert.Greater(t, factor, 0.0)
	})

	t.Run("Gap outside bounds not matched", func(t *testing.T) {
		seq := "ATGCGT" + strings.Repeat("A", 25) + "CGTATG"
		assert.Equal(t, 0.0, scorer.motifFactor([]string{seq}))
	})

	t.Run("Density saturates at one", func(t *testing.T) {
		seq := "ATGCGT" + strings.Repeat("A", 10) + "CGTATG"
		factor := scorer.motifFactor([]string{seq, seq})
		assert.LessOrEqual(t, factor, 1.0)
		assert.Equal(t, 1.0, factor)
	})
}

func TestQualityFactor(t *testing.T) {
	scorer := newTestScorer()

	t.Run("All N scores high", func(t *testing.T) {
		factor := scorer.qualityFactor(repeatSequences("NNNNNNNN", 10))
		assert.Greater(t, factor, 0.5)
	})

	t.Run("No N scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.qualityFactor(repeatSequences("ATGCATGC", 10)))
	})

	t.Run("Partial N content", func(t *testing.T) {
		// 25% N content scales by 5 into saturation.
		factor := scorer.qualityFactor(repeatSequences("ATGN", 10))
		assert.InDelta(t, 1.0, factor, 1e-9)
	})
}

func TestCategorizeRisk(t *testing.T) {
	tests := []struct {
		score    float64
		expected domain.RiskLevel
	}{
		{0.95, domain.RiskLevelCritical},
		{0.8, domain.RiskLevelCritical},
		{0.79999, domain.RiskLevelHigh},
		{0.6, domain.RiskLevelHigh},
		{0.59999, domain.RiskLevelMedium},
		{0.4, domain.RiskLevelMedium},
		{0.39999, domain.RiskLevelLow},
		{0.0, domain.RiskLevelLow},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score=%v", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeRisk(tt.score))
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := newTestScorer()

	sequences := distinctSequences(300)
	first := scorer.Score(sequences)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, scorer.Score(sequences))
	}
}

func TestPrefixSample(t *testing.T) {
	sequences := []string{"A", "C", "G", "T"}

	sampled := prefixSample(sequences, 2)
	require.Len(t, sampled, 2)
	assert.Equal(t, []string{"A", "C"}, sampled)

	assert.Len(t, prefixSample(sequences, 10), 4)
	assert.Len(t, prefixSample(sequences, 4), 4)
}

func TestGCFraction(t *testing.T) {
	assert.Equal(t, 0.0, gcFraction(""))
	assert.Equal(t, 0.5, gcFraction("ATGC"))
	assert.Equal(t, 1.0, gcFraction("GGCC"))
	assert.Equal(t, 0.0, gcFraction("ATAT"))
}
