package prompts

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Verdict is the judge's ruling on a scene goal.
type Verdict bool

const (
	VerdictNotMet Verdict = false
	VerdictMet    Verdict = true
)

func (v Verdict) String() string {
	if v {
		return "met"
	}
	return "not met"
}

// affirmative is matched anywhere in the lower-cased response.
const affirmative = "yes"

// ParseVerdict reads a judge response. The goal counts as met when the
// lower-cased text contains "yes" anywhere; everything else, including empty
// or malformed text, is not met.
//
// Known limitation: this is a substring match, so words such as "yesterday"
// or "eyes" read as affirmative.
func ParseVerdict(response string) Verdict {
	lower := cases.Lower(language.Und).String(response)
	return Verdict(strings.Contains(lower, affirmative))
}
