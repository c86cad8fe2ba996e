package llm

import (
	"regexp"
	"strings"
)

// Models answer "usually JSON, sometimes wrapped in a markdown fence". The
// fence is stripped by regex removal rather than prefix matching so a fence
// that survives mid-string noise still goes away.
var fenceRe = regexp.MustCompile("```json\n|\n```")

// StripJSONFence removes markdown code-fence wrapping and surrounding
// whitespace from a raw model answer.
func StripJSONFence(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}
