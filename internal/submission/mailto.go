package submission

import (
	"fmt"
	"net/url"
	"strings"
)

// InlineBodyLimit is the largest full block (in bytes) inlined into a mailto
// body. Beyond it, mail clients start truncating or refusing the URL.
const InlineBodyLimit = 1500

// Mailto is a prepared mailto link. When NeedsAttachment is true the body
// holds only the human-readable summary and the operator must attach the
// downloaded .txt file.
type Mailto struct {
	Href            string
	NeedsAttachment bool
}

// BuildMailto builds the mailto link for a submission. The full block is
// inlined when it fits the limit exactly or below; otherwise the shortened
// human-only form is used.
func BuildMailto(p Payload, fullBlock string) Mailto {
	subject := escape(fmt.Sprintf("Monthly Goals %s – %s (%s)",
		strings.Join(p.Months, ", "), p.Staff, p.Region))

	if len(fullBlock) <= InlineBodyLimit {
		return Mailto{
			Href: fmt.Sprintf("mailto:?subject=%s&body=%s", subject, escape(fullBlock)),
		}
	}

	return Mailto{
		Href:            fmt.Sprintf("mailto:?subject=%s&body=%s", subject, escape(HumanOnly(p))),
		NeedsAttachment: true,
	}
}

// escape percent-encodes for a mailto URL. url.QueryEscape would encode
// spaces as "+", which mail clients render literally.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
