package leaderboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mauv0809/tierboard/internal/rating"
)

// FormatStars prints a star value in its shortest form, e.g. "4.5" or "5".
func FormatStars(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// profileLink renders the player as a markdown link when a profile URL is known.
func profileLink(p Player) string {
	if p.RobloxLink != "" {
		return fmt.Sprintf("[%s](%s)", p.Name, p.RobloxLink)
	}
	return p.Name
}

func writeItem(sb *strings.Builder, p Player) {
	fmt.Fprintf(sb, "## %d - %s\n", p.Position, profileLink(p))
}

// RenderClassicBlock renders one tier heading and all of its sub-bands.
func RenderClassicBlock(b ClassicBucket) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s %s\n", b.Tier.Name(), b.Tier.Emoji())
	for _, group := range b.Bands {
		fmt.Fprintf(&sb, "-# %s\n", group.Band)
		for _, p := range group.Players {
			writeItem(&sb, p)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// RenderFFABlock renders one star heading and its players.
func RenderFFABlock(b FFABucket) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Stars %s\n", FormatStars(b.Stars), rating.FFAEmoji(b.Stars))
	for _, p := range b.Players {
		writeItem(&sb, p)
	}
	sb.WriteString("\n")
	return sb.String()
}

// ClassicBlocks renders every tier of the classic board in canonical order.
func ClassicBlocks(players []Player) (blocks []string, dropped int) {
	buckets, dropped := GroupClassic(players)
	for _, b := range buckets {
		blocks = append(blocks, RenderClassicBlock(b))
	}
	return blocks, dropped
}

// FFABlocks renders every star group of the FFA board, highest first.
func FFABlocks(players []Player) []string {
	buckets := GroupFFA(players)
	blocks := make([]string, 0, len(buckets))
	for _, b := range buckets {
		blocks = append(blocks, RenderFFABlock(b))
	}
	return blocks
}

// Render returns the unchunked text of a board.
func Render(kind Kind, players []Player) string {
	switch kind {
	case Classic:
		blocks, _ := ClassicBlocks(players)
		return strings.Join(blocks, "")
	case FFA:
		return strings.Join(FFABlocks(players), "")
	}
	return ""
}

// OverallLines renders one line per player in input order, combining both
// ratings. Positions are always the 1-based input index.
func OverallLines(players []Player) []string {
	lines := make([]string, 0, len(players))
	for i, p := range players {
		lines = append(lines, fmt.Sprintf("## %d - %s | %s %s Stars / %s %s\n",
			i+1,
			profileLink(p),
			rating.FFAEmoji(p.Stars),
			FormatStars(p.Stars),
			rating.RankEmoji(p.Rank),
			p.Rank,
		))
	}
	return lines
}

// RenderOverall returns the single-message overall leaderboard.
func RenderOverall(players []Player) string {
	return OverallHeading + strings.Join(OverallLines(players), "")
}
