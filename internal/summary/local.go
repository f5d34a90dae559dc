package summary

import (
	"fmt"
	"strings"

	"github.com/ErlanBelekov/briefly/internal/domain"
)

const defaultLead = "This article discusses important topics."

// Local builds the offline summary: the first sentence of text followed by a
// word-count sentence. Output depends only on text.
func Local(text string) string {
	lead := defaultLead
	for _, sentence := range strings.Split(text, ".") {
		if s := strings.TrimSpace(sentence); s != "" {
			lead = s + "."
			break
		}
	}
	return fmt.Sprintf(
		"%s This comprehensive article contains approximately %d words and covers key concepts that provide valuable insights for readers interested in the subject matter.",
		lead, domain.WordCount(text),
	)
}
