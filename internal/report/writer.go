package report

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"research-crew/internal/common/errors"
)

const fallbackName = "analysis_report"

// SanitizeName replaces every non-alphanumeric rune with "_".
func SanitizeName(target string) string {
	if target == "" {
		return fallbackName
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, target)
}

// FileName is "<sanitized target>_<timestamp>.txt".
func FileName(target, timestamp string) string {
	return SanitizeName(target) + "_" + timestamp + ".txt"
}

// Write stores content under dir, creating it if missing, and returns the
// file path.
func Write(dir, target, timestamp, content string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewReportWriteFailedError(dir, err)
	}

	path := filepath.Join(dir, FileName(target, timestamp))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.NewReportWriteFailedError(path, err)
	}
	return path, nil
}
