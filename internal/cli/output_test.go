package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$50.00", FormatCents(5000))
	assert.Equal(t, "-$50.00", FormatCents(-5000))
	assert.Equal(t, "$0.05", FormatCents(5))
	assert.Equal(t, "-$2500.00", FormatCents(-250000))
	assert.Equal(t, "$0.00", FormatCents(0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "very lo...", truncate("very long display name", 10))
}
