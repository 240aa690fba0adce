package trust

import (
	"fmt"
	"strings"

	"github.com/yanqian/content-digest/internal/domain/content"
)

var sensationalTokens = []string{
	"you won't believe",
	"shocking",
	"miracle",
	"doctors hate",
	"exposed",
	"cover-up",
	"conspiracy",
	"hoax",
	"wake up",
	"share before",
	"they don't want you to know",
	"100% proven",
	"!!!",
}

// heuristicVerdict is deterministic and never touches the network.
func heuristicVerdict(normalized string) Verdict {
	lowered := strings.ToLower(normalized)
	var hits []string
	for _, token := range sensationalTokens {
		if strings.Contains(lowered, token) {
			hits = append(hits, token)
		}
	}
	if len(hits) > 0 {
		return verdict(false, sensationalConfidence, fmt.Sprintf("Sensational language detected: %s", strings.Join(hits, ", ")))
	}
	if content.WordCount(normalized) < minWords {
		return verdict(false, shortTextConfidence, "Not enough text to assess reliability.")
	}
	return verdict(true, neutralConfidence, "No warning signs found, but the source is not recognised.")
}
