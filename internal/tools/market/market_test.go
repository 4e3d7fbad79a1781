package market

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTool_Execute(t *testing.T) {
	out, err := New().Execute(context.Background(), "retail")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Market Analysis for the 'retail' Industry:\n\n"))
	assert.Contains(t, out, "The retail sector is experiencing")
	for _, point := range []string{"1.  **Current Growth", "4.  **Consumer Behavior", "7.  **Challenges**"} {
		assert.Contains(t, out, point)
	}
	assert.Len(t, strings.Split(out, "\n"), 9)
}
