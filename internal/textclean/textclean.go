// Package textclean normalizes raw SEC filing texts into single-line
// documents named after their company and filing identifiers.
package textclean

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sipafcli/internal/files"
)

// NormalizeText replaces carriage returns, line feeds and tabs with spaces,
// collapses whitespace runs and trims the ends, producing one line.
func NormalizeText(s string) string {
	replacer := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")
	return strings.Join(strings.Fields(replacer.Replace(s)), " ")
}

// OutputName derives the cleaned file name from the two parent directory
// names of a full-submission.txt path: the grandparent is the company
// identifier, the parent the filing identifier.
func OutputName(path string) (company, filing, name string) {
	dir := filepath.Dir(path)
	filing = filepath.Base(dir)
	company = filepath.Base(filepath.Dir(dir))
	return company, filing, fmt.Sprintf("%s_%s_10K.txt", company, filing)
}

// Cleaner normalizes every filing under a raw EDGAR tree.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a filing text cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// CleanAll walks root for full-submission.txt files, writes each normalized
// text to outDir and returns the number of files written. A failure on one
// file is logged and skipped; it never aborts the remaining files.
func (c *Cleaner) CleanAll(root, outDir string) (int, error) {
	discovery := files.NewDiscovery("")
	submissions, err := discovery.FindFilingSubmissions(root)
	if err != nil {
		return 0, fmt.Errorf("failed to discover filings: %w", err)
	}
	if len(submissions) == 0 {
		c.logger.Warn("no full-submission.txt files found", slog.String("root", root))
		return 0, nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := 0
	for _, sub := range submissions {
		if err := c.cleanOne(sub.Path, outDir); err != nil {
			c.logger.Error("failed to clean filing, skipping",
				slog.String("file", sub.Path),
				slog.String("error", err.Error()))
			continue
		}
		written++
	}

	c.logger.Info("filing texts cleaned",
		slog.Int("written", written),
		slog.Int("found", len(submissions)),
		slog.String("out_dir", outDir))
	return written, nil
}

// cleanOne normalizes a single filing and writes it under outDir.
func (c *Cleaner) cleanOne(path, outDir string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	_, _, name := OutputName(path)
	dest := filepath.Join(outDir, name)
	if err := os.WriteFile(dest, []byte(NormalizeText(string(raw))), 0644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	c.logger.Info("cleaned filing text",
		slog.String("source", path),
		slog.String("dest", dest))
	return nil
}
