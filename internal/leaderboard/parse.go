package leaderboard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mauv0809/tierboard/internal/rating"
)

var (
	bracketItemRe = regexp.MustCompile(`##\s*(\d+)\s*-\s*\[(.+?)\]\((.+?)\)`)
	legacyItemRe  = regexp.MustCompile(`##\s*(\d+)\s*-\s*:[^:]*:\s*(.+)`)
	bareItemRe    = regexp.MustCompile(`##\s*(\d+)\s*-\s*(.+)`)
	emojiOnlyRe   = regexp.MustCompile(`^:[^:]*:$`)
	linkOrNameRe  = regexp.MustCompile(`^(?:\[(.+?)\]\((.+?)\)|(.+))`)
	starsRe       = regexp.MustCompile(`(\d+\.?\d*)\s*Stars`)
)

type lineKind int

const (
	lineOther lineKind = iota
	lineItem
	lineSubHeading
	lineHeading
)

// classify decides what a trimmed line is. Item lines are checked first so a
// legacy ":STier:" marker or a player name containing "Tier" is never taken
// for a tier heading.
func classify(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "## "):
		return lineItem
	case strings.HasPrefix(line, "-# "):
		return lineSubHeading
	case strings.HasPrefix(line, "# "), strings.Contains(line, "Tier"):
		return lineHeading
	}
	return lineOther
}

// item is what could be read from a player line.
type item struct {
	position int
	name     string
	link     string
}

func parseBracketItem(line string) (item, bool) {
	m := bracketItemRe.FindStringSubmatch(line)
	if m == nil {
		return item{}, false
	}
	pos, err := strconv.Atoi(m[1])
	if err != nil {
		return item{}, false
	}
	return item{position: pos, name: strings.TrimSpace(m[2]), link: m[3]}, true
}

func parseLegacyItem(line string) (item, bool) {
	m := legacyItemRe.FindStringSubmatch(line)
	if m == nil {
		return item{}, false
	}
	pos, err := strconv.Atoi(m[1])
	if err != nil {
		return item{}, false
	}
	it := item{position: pos}
	rest := linkOrNameRe.FindStringSubmatch(m[2])
	switch {
	case rest == nil:
	case rest[1] != "":
		it.name, it.link = strings.TrimSpace(rest[1]), rest[2]
	default:
		it.name = strings.TrimSpace(rest[3])
	}
	return it, true
}

func parseBareItem(line string) (item, bool) {
	m := bareItemRe.FindStringSubmatch(line)
	if m == nil {
		return item{}, false
	}
	pos, err := strconv.Atoi(m[1])
	if err != nil {
		return item{}, false
	}
	name := strings.TrimSpace(m[2])
	// a lone emoji marker is a legacy line that lost its name
	if emojiOnlyRe.MatchString(name) {
		return item{}, false
	}
	return item{position: pos, name: name}, true
}

// Parse reads previously exported text back into players. Lines that cannot
// be understood are skipped, so the result may be empty.
func Parse(text string, kind Kind) []Player {
	lines := strings.Split(text, "\n")
	switch kind {
	case Classic:
		return parseClassic(lines)
	case FFA:
		return parseFFA(lines)
	}
	return nil
}

type classicState int

const (
	classicNoContext classicState = iota
	classicTierOnly
	classicSubBandOnly
	classicTierAndSubBand
)

// classicCursor is the heading context in effect for the next player line.
type classicCursor struct {
	state classicState
	tier  string
	sub   string
}

func (c classicCursor) withTier(tier string) classicCursor {
	c.tier = tier
	return c.settle()
}

func (c classicCursor) withSub(sub string) classicCursor {
	c.sub = sub
	return c.settle()
}

func (c classicCursor) settle() classicCursor {
	switch {
	case c.tier != "" && c.sub != "":
		c.state = classicTierAndSubBand
	case c.tier != "":
		c.state = classicTierOnly
	case c.sub != "":
		c.state = classicSubBandOnly
	default:
		c.state = classicNoContext
	}
	return c
}

// rank builds the rank label for players under the cursor. Older exports only
// carried one of the two headings, in which case that heading alone is used.
func (c classicCursor) rank() (string, bool) {
	switch c.state {
	case classicTierAndSubBand:
		return c.tier + " " + c.sub, true
	case classicTierOnly:
		return c.tier, true
	case classicSubBandOnly:
		return c.sub, true
	}
	return "", false
}

func (c classicCursor) next(line string) classicCursor {
	switch classify(line) {
	case lineSubHeading:
		return c.withSub(strings.TrimSpace(line[len("-# "):]))
	case lineHeading:
		if !strings.Contains(line, "Tier") {
			return c
		}
		for _, t := range rating.Tiers {
			if strings.Contains(line, t.Name()) {
				return c.withTier(t.Label())
			}
		}
	}
	return c
}

func parseClassic(lines []string) []Player {
	players := make([]Player, 0)
	var cur classicCursor
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if classify(line) != lineItem {
			cur = cur.next(line)
			continue
		}

		it, ok := parseBracketItem(line)
		if !ok {
			it, ok = parseLegacyItem(line)
		}
		if !ok {
			it, ok = parseBareItem(line)
		}
		if !ok || it.name == "" {
			continue
		}
		rank, ok := cur.rank()
		if !ok {
			continue
		}
		players = append(players, Player{
			Name:       it.name,
			Position:   it.position,
			Rank:       rank,
			RobloxLink: it.link,
		})
	}
	return players
}

// ffaCursor carries the star value of the most recent star heading.
type ffaCursor struct {
	stars float64
	set   bool
}

func (c ffaCursor) next(line string) ffaCursor {
	if !strings.HasPrefix(line, "# ") {
		return c
	}
	m := starsRe.FindStringSubmatch(line)
	if m == nil {
		return c
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return c
	}
	return ffaCursor{stars: v, set: true}
}

func parseFFA(lines []string) []Player {
	players := make([]Player, 0)
	var cur ffaCursor
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if classify(line) != lineItem {
			cur = cur.next(line)
			continue
		}

		it, ok := parseBracketItem(line)
		if !ok {
			// TODO: accept the ":emoji: name" form here once FFA exports from
			// the old bot need importing; until then such lines are skipped.
			if _, legacy := parseLegacyItem(line); legacy {
				continue
			}
			it, ok = parseBareItem(line)
		}
		if !ok || !cur.set || it.position <= 0 || it.name == "" {
			continue
		}
		players = append(players, Player{
			Name:       it.name,
			Position:   it.position,
			Stars:      cur.stars,
			RobloxLink: it.link,
		})
	}
	return players
}
