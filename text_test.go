package blogboost_test

import (
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/blogboost"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", blogboost.NormalizeWhitespace("  a\n\n b\t\tc  "))
	assert.Equal(t, "", blogboost.NormalizeWhitespace(" \n\t "))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", blogboost.Truncate("hello", 10))
	assert.Equal(t, "hel", blogboost.Truncate("hello", 3))
	assert.Equal(t, "", blogboost.Truncate("hello", 0))

	// Multi-byte runes are never split.
	got := blogboost.Truncate("żółw żółw", 3)
	assert.Equal(t, "żół", got)
	assert.True(t, utf8.ValidString(got))
}
