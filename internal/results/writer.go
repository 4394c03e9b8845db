package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

// WriteResultsJSON overwrites the aggregated results file with the
// given entries. The write is atomic: content goes to a temp file in
// the same directory which is then renamed over the target, so the
// dashboard never reads a half-written file.
func WriteResultsJSON(results []domain.CageResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".results-*.json")
	if err != nil {
		return fmt.Errorf("creating temp results file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp results file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing results file: %w", err)
	}
	return nil
}

// ReadResultsJSON loads previously written aggregated results.
func ReadResultsJSON(path string) ([]domain.CageResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}

	var results []domain.CageResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decoding results file: %w", err)
	}
	return results, nil
}
