// Package transfer validates and runs sequential SUI transfer batches.
package transfer

import (
	"strings"

	"github.com/suisend/suisend/pkg/types"
)

// MinRecipientLength is the shortest line accepted as a recipient. Full
// addresses are 66 characters; shorter forms are tolerated down to this.
const MinRecipientLength = 60

// SkippedLine is a non-empty input line that was not used as a recipient.
type SkippedLine struct {
	Line   int // 1-based
	Text   string
	Reason string
}

// Recipients is the parsed recipient batch.
type Recipients struct {
	Addresses []types.Address
	Skipped   []SkippedLine
}

// ParseRecipients splits text on newlines and keeps trimmed lines that start
// with "0x", are at least MinRecipientLength characters and decode as an
// address. Blank lines are ignored; every other rejected line is reported.
func ParseRecipients(text string) Recipients {
	var r Recipients
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		skip := func(reason string) {
			r.Skipped = append(r.Skipped, SkippedLine{Line: i + 1, Text: line, Reason: reason})
		}
		if !strings.HasPrefix(line, "0x") {
			skip("does not start with 0x")
			continue
		}
		if len(line) < MinRecipientLength {
			skip("too short for an address")
			continue
		}
		addr, err := types.ParseAddress(line)
		if err != nil {
			skip(err.Error())
			continue
		}
		r.Addresses = append(r.Addresses, addr)
	}
	return r
}

// ParseRecipientList parses addresses given one per element (e.g. repeated
// command-line flags) with the same rules as ParseRecipients.
func ParseRecipientList(items []string) Recipients {
	return ParseRecipients(strings.Join(items, "\n"))
}
