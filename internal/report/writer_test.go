package report

import (
	"os"
	"path/filepath"
	"testing"

	commonerrors "research-crew/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Acme Co", "Acme_Co"},
		{"Hindustan Unilever Limited", "Hindustan_Unilever_Limited"},
		{"A&B/C.d", "A_B_C_d"},
		{"Café 42", "Café_42"},
		{"", "analysis_report"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), tt.in)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	path, err := Write(dir, "Acme Co", "2026-03-01_09-30-00", "report body")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Acme_Co_2026-03-01_09-30-00.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(data))
}

func TestWrite_Failure(t *testing.T) {
	// a regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Write(filepath.Join(blocker, "reports"), "Acme", "ts", "body")
	require.Error(t, err)

	se, ok := commonerrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeReportWriteFailed, se.Code)
}
