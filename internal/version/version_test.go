package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestShort tests the Short function.
func TestShort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Version, Short())
	assert.Regexp(t, `^\d+\.\d+\.\d+`, Short())
}

// TestFull tests that Full reports every piece of build metadata in order.
func TestFull(t *testing.T) {
	t.Parallel()

	full := Full()

	for _, part := range []string{Version, Commit, BuildTime} {
		assert.NotEmpty(t, part)
		assert.Contains(t, full, part)
	}

	assert.Less(t, strings.Index(full, "version: "), strings.Index(full, "commit: "))
	assert.Less(t, strings.Index(full, "commit: "), strings.Index(full, "built at: "))
}
