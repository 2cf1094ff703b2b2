package leaderboard

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// TextLen measures text the way chat clients count their message limit, in
// UTF-16 code units. Characters outside the Basic Multilingual Plane, which
// includes most emoji, count as two.
func TextLen(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// Chunk packs rendered blocks into messages of at most budget characters, as
// measured by TextLen.
// A block is never split; one that is larger than the budget on its own is
// emitted as a single oversize message. A budget of zero or less selects
// DefaultBudget.
func Chunk(blocks []string, budget int) []string {
	if budget <= 0 {
		budget = DefaultBudget
	}

	messages := make([]string, 0)
	var current strings.Builder
	currentLen := 0

	flush := func() {
		msg := strings.TrimRightFunc(current.String(), unicode.IsSpace)
		if msg != "" {
			messages = append(messages, msg)
		}
		current.Reset()
		currentLen = 0
	}

	for _, block := range blocks {
		blockLen := TextLen(block)
		if currentLen+blockLen > budget {
			flush()
		}
		current.WriteString(block)
		currentLen += blockLen
	}
	flush()

	return messages
}

// Join concatenates messages for display using MessageSeparator.
func Join(messages []string) string {
	return strings.Join(messages, MessageSeparator)
}

// Text is the display form of the export.
func (r Result) Text() string {
	return Join(r.Messages)
}

// Export renders and chunks a board.
func Export(kind Kind, players []Player, budget int) Result {
	res := Result{Kind: kind}
	switch kind {
	case Classic:
		blocks, dropped := ClassicBlocks(players)
		res.Messages = Chunk(blocks, budget)
		res.Dropped = dropped
	case FFA:
		res.Messages = Chunk(FFABlocks(players), budget)
	}
	return res
}

// ExportOverall chunks the overall leaderboard line by line. The heading
// only appears in the first message.
func ExportOverall(players []Player, budget int) []string {
	blocks := append([]string{OverallHeading}, OverallLines(players)...)
	return Chunk(blocks, budget)
}
