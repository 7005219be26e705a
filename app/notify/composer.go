package notify

import (
	"strings"
	"time"

	"github.com/gregdel/pushover"

	"jobpush/app/feed"
)

const (
	// Pushover rejects message bodies longer than 1024 characters.
	maxBodyLength = 1024

	// footerMarker is the literal opening the "Posted On" footer that Upwork
	// appends to every summary. The footer is preserved when truncating.
	footerMarker = "<br /><b>Posted On"

	freelancerMarker = "freelancer"
	labelFreelancer  = "Freelancer"
	labelUpwork      = "Upwork"
)

// Composer builds one Pushover message per posting. Composition never fails
// for a well-formed posting; a missing link simply yields a message without
// a supplementary URL.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

func (c *Composer) Run(posting feed.Posting) *pushover.Message {
	message := &pushover.Message{
		Title:     SourceLabel(posting.ID) + " : " + posting.Title,
		Message:   truncateBody(posting.Summary),
		Priority:  pushover.PriorityNormal,
		HTML:      true,
		Timestamp: time.Now().Unix(),
		Sound:     pushover.SoundSiren,
	}

	if posting.Link != "" {
		message.URL = posting.Link
		message.URLTitle = posting.Title
	}

	return message
}

// SourceLabel distinguishes the two supported sources by a marker substring
// in the posting ID.
func SourceLabel(id string) string {
	if strings.Contains(strings.ToLower(id), freelancerMarker) {
		return labelFreelancer
	}
	return labelUpwork
}

// truncateBody bounds a summary to maxBodyLength. When the summary carries
// the "Posted On" footer, the footer is kept intact and the leading text is
// cut to make room for it plus an ellipsis; otherwise the summary is cut
// hard at the limit.
func truncateBody(summary string) string {
	if len(summary) <= maxBodyLength {
		return summary
	}

	footerIndex := strings.Index(summary, footerMarker)
	if footerIndex == -1 {
		return summary[:maxBodyLength]
	}

	footer := summary[footerIndex:]

	keep := maxBodyLength - 3 - len(footer)
	if keep < 0 {
		// Footer alone exceeds the limit, fall back to a hard cut.
		return summary[:maxBodyLength]
	}
	if keep > footerIndex {
		keep = footerIndex
	}

	return summary[:keep] + "..." + footer
}
