// Package digest walks every channel of a run and assembles the summary
// message posted at the end.
package digest

import (
	"fmt"
	"strings"
	"time"
)

const titleLayout = "2006-01-02"

// Formatter builds the digest text.
type Formatter struct {
	title string
	parts []string
}

// NewFormatter starts a digest whose title carries the date of start.
func NewFormatter(start time.Time) *Formatter {
	return &Formatter{
		title: fmt.Sprintf("%s public channels summary\n\n", start.Format(titleLayout)),
	}
}

// AddChannel appends a channel header. Slack renders <#ID> as a link to the
// channel.
func (f *Formatter) AddChannel(channelID string) {
	f.parts = append(f.parts, fmt.Sprintf("----\n<#%s>", channelID))
}

// AddSummary appends one batch summary under the last channel header.
func (f *Formatter) AddSummary(summary string) {
	f.parts = append(f.parts, summary)
}

// Empty reports whether no channel was added.
func (f *Formatter) Empty() bool {
	return len(f.parts) == 0
}

// String returns the full digest.
func (f *Formatter) String() string {
	return f.title + strings.Join(f.parts, "\n")
}
