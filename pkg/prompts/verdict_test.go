package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		response string
		expected Verdict
	}{
		{response: "Yes, completed", expected: VerdictMet},
		{response: "no", expected: VerdictNotMet},
		// Substring match: known false positive.
		{response: "yesterday", expected: VerdictMet},
		{response: "YES", expected: VerdictMet},
		{response: "  yes.\n", expected: VerdictMet},
		{response: "No, not yet.", expected: VerdictNotMet},
		{response: "", expected: VerdictNotMet},
		{response: "{\"verdict\": true}", expected: VerdictNotMet},
		{response: "The tadpole's eyes widen", expected: VerdictMet},
		{response: "是的 yes", expected: VerdictMet},
	}

	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseVerdict(tt.response))
		})
	}
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "met", VerdictMet.String())
	assert.Equal(t, "not met", VerdictNotMet.String())
}
