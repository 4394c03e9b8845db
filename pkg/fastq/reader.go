package fastq

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// sequencePattern matches valid nucleotide sequences including IUPAC
// ambiguity codes.
var sequencePattern = regexp.MustCompile(`^[ACGTRYKMSWBDHVN]+$`)

// RecordReader streams sequence records out of fastq files
type RecordReader struct {
	logger *logrus.Logger
}

// NewRecordReader creates a new record reader
func NewRecordReader(logger *logrus.Logger) *RecordReader {
	return &RecordReader{logger: logger}
}

// ReadRecords extracts sequence lines from line-oriented fastq input.
// Fastq records are 4-line groups (@header, sequence, separator,
// quality); the raw 1-based line number mod 4 == 2 selects the
// sequence line. Sequences failing the nucleotide alphabet check are
// dropped with a debug log, not an error. The returned slice may be
// empty; callers must treat that as "no data".
func (r *RecordReader) ReadRecords(src io.Reader) ([]string, error) {
	var sequences []string

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if lineCount%4 != 2 {
			continue
		}

		upper := strings.ToUpper(line)
		if sequencePattern.MatchString(upper) {
			sequences = append(sequences, upper)
		} else {
			r.logger.WithFields(logrus.Fields{
				"line": lineCount,
			}).Debug("Dropping invalid sequence line")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading fastq input: %w", err)
	}

	r.logger.WithField("sequences", len(sequences)).Debug("Extracted valid sequences")
	return sequences, nil
}

// ReadRecordsFile opens a fastq file, transparently decompressing
// gzip based on the .gz suffix, and extracts its sequence records.
func (r *RecordReader) ReadRecordsFile(path string) ([]string, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening fastq file %q: %w", path, err)
	}
	defer rc.Close()

	sequences, err := r.ReadRecords(rc)
	if err != nil {
		return nil, fmt.Errorf("reading fastq file %q: %w", path, err)
	}
	return sequences, nil
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openReader opens a file for reading, wrapping it in a gzip reader
// when the path carries a .gz suffix. Compression is decided by the
// suffix, not sniffed from content.
func openReader(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}
