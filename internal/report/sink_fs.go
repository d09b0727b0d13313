// Package report persists analysis reports as JSON artifacts. Saving a
// report is an optional side effect of a caller, never part of the analysis
// contract.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"github.com/blogrank/blogrank/internal/blog"
)

var invalidFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileSystemSink saves one JSON file per report under a root directory.
type FileSystemSink struct {
	root   string
	logger *zap.Logger
}

// NewFileSystemSink returns a sink rooted at dir.
func NewFileSystemSink(root string, logger *zap.Logger) (*FileSystemSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", root, err)
	}
	return &FileSystemSink{root: root, logger: logger}, nil
}

// Save writes the report to disk and returns the file path.
func (s *FileSystemSink) Save(ctx context.Context, r *blog.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	if r == nil {
		return "", fmt.Errorf("nil report")
	}

	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json",
		invalidFilenameChars.ReplaceAllString(r.BlogID, "_"),
		r.AnalyzedAt.Format("20060102_150405"),
	)
	target := filepath.Join(s.root, name)
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return "", fmt.Errorf("write report %s: %w", target, err)
	}

	s.logger.Debug("report saved", zap.String("path", target))
	return target, nil
}
