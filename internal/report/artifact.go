package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wkarim/osintagent/internal/storage"
)

// FileName returns the deterministic report file name for a target.
// Non-alphanumeric characters are replaced so the name is filesystem safe;
// re-running the same target overwrites the same file.
func FileName(target string) string {
	return fmt.Sprintf("report_%s.md", storage.SanitizeTarget(target))
}

// WriteArtifact persists the report text under dir and returns the full path
func WriteArtifact(dir, target, text string) (string, error) {
	if err := storage.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(dir, FileName(target))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("writing report artifact: %w", err)
	}
	return path, nil
}
