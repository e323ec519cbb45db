package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompts(t *testing.T) {
	for _, key := range []string{"parse-requirements", "evaluate-fit"} {
		prompt, err := Get("analysis.json", key)
		require.NoError(t, err, "key %s", key)
		assert.NotEmpty(t, prompt)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("analysis.json", "does-not-exist")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "parse-requirements")
	assert.Error(t, err)
}

func TestFormat_ReplacesPlaceholders(t *testing.T) {
	template := MustGet("analysis.json", "evaluate-fit")
	formatted := Format(template, map[string]string{
		"JobText":          "JOB_TEXT_MARKER",
		"CandidateSummary": "SUMMARY_MARKER",
	})

	assert.True(t, strings.Contains(formatted, "JOB_TEXT_MARKER"))
	assert.True(t, strings.Contains(formatted, "SUMMARY_MARKER"))
	assert.False(t, strings.Contains(formatted, "{{."))
}
