package fastq

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

// Filename convention: PartnerID_CageID_YYYY-MM-DD_SampleID.fastq
// The date is the only component with a fixed shape, so it anchors the
// partner/cage/sample boundaries. Go's regexp engine is RE2, which
// guarantees linear-time matching regardless of input.
var filenamePattern = regexp.MustCompile(
	`^(?P<partner_id>[A-Za-z0-9\-]+)_` +
		`(?P<cage_id>[A-Za-z0-9\-_]+)_` +
		`(?P<date>\d{4}-\d{2}-\d{2})_` +
		`(?P<sample_id>[A-Za-z0-9\-_]+)` +
		`\.(?P<extension>fastq|fq|fastq\.gz|fq\.gz)$`)

// supportedExtensions is the exact set of accepted fastq extensions.
var supportedExtensions = []string{".fastq", ".fq", ".fastq.gz", ".fq.gz"}

// Metadata contains the components parsed from a fastq filename
type Metadata struct {
	PartnerID        string    `json:"partner_id"`
	CageID           string    `json:"cage_id"`
	Date             string    `json:"date"`
	SampleID         string    `json:"sample_id"`
	Extension        string    `json:"extension"`
	IsCompressed     bool      `json:"is_compressed"`
	ParsedDate       time.Time `json:"parsed_date"`
	OriginalFilename string    `json:"original_filename"`
}

// PathMetadata extends Metadata with file path information
type PathMetadata struct {
	Metadata
	FullPath  string `json:"full_path"`
	Directory string `json:"directory"`
	Stem      string `json:"stem"`
}

// FilenameParser extracts metadata from fastq filenames
type FilenameParser struct {
	logger *logrus.Logger
}

// NewFilenameParser creates a new filename parser
func NewFilenameParser(logger *logrus.Logger) *FilenameParser {
	return &FilenameParser{logger: logger}
}

// Parse parses a fastq filename and extracts its metadata components.
// It returns a ParseError when the filename does not match the naming
// convention or encodes an impossible calendar date.
func (p *FilenameParser) Parse(filename string) (*Metadata, error) {
	if filename == "" {
		return nil, domain.NewParseError(filename, "filename cannot be empty")
	}

	p.logger.WithField("filename", filename).Debug("Parsing filename")

	match := filenamePattern.FindStringSubmatch(filename)
	if match == nil {
		err := domain.NewParseError(filename, fmt.Sprintf(
			"filename %q does not match expected pattern 'PartnerID_CageID_YYYY-MM-DD_SampleID.fastq'",
			filename))
		p.logger.WithField("filename", filename).Error(err.Message)
		return nil, err
	}

	components := make(map[string]string, 5)
	for i, name := range filenamePattern.SubexpNames() {
		if name != "" {
			components[name] = match[i]
		}
	}

	// The grammar only guarantees the date is digit-shaped; strict
	// calendar validation rejects month 13, Feb 30 and friends.
	parsedDate, err := time.Parse("2006-01-02", components["date"])
	if err != nil {
		perr := domain.NewParseError(filename, fmt.Sprintf(
			"invalid date in filename %q: %s", filename, components["date"]))
		p.logger.WithField("filename", filename).Error(perr.Message)
		return nil, perr
	}

	extension := components["extension"]
	meta := &Metadata{
		PartnerID:        components["partner_id"],
		CageID:           components["cage_id"],
		Date:             components["date"],
		SampleID:         components["sample_id"],
		Extension:        extension,
		IsCompressed:     extension == "fastq.gz" || extension == "fq.gz",
		ParsedDate:       parsedDate,
		OriginalFilename: filename,
	}

	p.logger.WithFields(logrus.Fields{
		"partner_id": meta.PartnerID,
		"cage_id":    meta.CageID,
		"date":       meta.Date,
		"sample_id":  meta.SampleID,
	}).Debug("Successfully parsed filename")

	return meta, nil
}

// ParsePath parses the basename of a file path and adds path information.
// The grammar rules applied to the basename are identical to Parse.
func (p *FilenameParser) ParsePath(path string) (*PathMetadata, error) {
	base := filepath.Base(path)

	meta, err := p.Parse(base)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path for %q: %w", path, err)
	}

	return &PathMetadata{
		Metadata:  *meta,
		FullPath:  abs,
		Directory: filepath.Dir(path),
		Stem:      base[:len(base)-len(filepath.Ext(base))],
	}, nil
}

// IsValid reports whether a filename matches the naming convention
func (p *FilenameParser) IsValid(filename string) bool {
	_, err := p.Parse(filename)
	return err == nil
}

// Validate checks a filename and returns detailed error information.
// The returned message is empty when the filename is valid.
func (p *FilenameParser) Validate(filename string) (bool, string) {
	if _, err := p.Parse(filename); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// ExtractPartnerID extracts just the partner ID from a filename
func (p *FilenameParser) ExtractPartnerID(filename string) (string, error) {
	meta, err := p.Parse(filename)
	if err != nil {
		return "", err
	}
	return meta.PartnerID, nil
}

// ExtractCageID extracts just the cage ID from a filename
func (p *FilenameParser) ExtractCageID(filename string) (string, error) {
	meta, err := p.Parse(filename)
	if err != nil {
		return "", err
	}
	return meta.CageID, nil
}

// SupportedExtensions returns a copy of the supported extension set
func (p *FilenameParser) SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}
