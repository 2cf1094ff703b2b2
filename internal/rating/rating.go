package rating

import (
	"fmt"
	"strings"
)

// Label returns the short tier label used inside rank labels, e.g. "A+".
func (t Tier) Label() string {
	switch t {
	case TierS:
		return "S"
	case TierAPlus:
		return "A+"
	case TierA:
		return "A"
	case TierAMinus:
		return "A-"
	case TierBPlus:
		return "B+"
	}
	return ""
}

// Name returns the heading name of the tier, e.g. "A+ Tier".
func (t Tier) Name() string {
	if l := t.Label(); l != "" {
		return l + " Tier"
	}
	return ""
}

// Emoji returns the chat short code shown next to the tier heading.
func (t Tier) Emoji() string {
	switch t {
	case TierS:
		return ":STier:"
	case TierAPlus:
		return ":HighTier:"
	case TierA:
		return ":MidTier:"
	case TierAMinus, TierBPlus:
		return ":LowTier:"
	}
	return ""
}

func (t Tier) String() string { return t.Label() }

func (b SubBand) String() string {
	switch b {
	case SubBandHigh:
		return "High"
	case SubBandMid:
		return "Mid"
	case SubBandLow:
		return "Low"
	}
	return ""
}

// RankLabel joins a tier and sub-band into a classic rank label like "S High".
func RankLabel(t Tier, b SubBand) string {
	return t.Label() + " " + b.String()
}

// ClassicInfo resolves a rank label such as "A- Mid" into its tier and sub-band.
func ClassicInfo(rank string) (Tier, SubBand, bool) {
	label, band, ok := strings.Cut(rank, " ")
	if !ok {
		return 0, 0, false
	}
	for _, t := range Tiers {
		if t.Label() != label {
			continue
		}
		for _, b := range SubBands {
			if b.String() == band {
				return t, b, true
			}
		}
	}
	return 0, 0, false
}

// RankLabels lists every valid classic rank, highest first.
func RankLabels() []string {
	labels := make([]string, 0, len(Tiers)*len(SubBands))
	for _, t := range Tiers {
		for _, b := range SubBands {
			labels = append(labels, RankLabel(t, b))
		}
	}
	return labels
}

// RankPoints returns the 1..15 point value of a rank label, B+ Low being 1.
func RankPoints(rank string) (int, bool) {
	t, b, ok := ClassicInfo(rank)
	if !ok {
		return 0, false
	}
	return (len(Tiers)-1-int(t))*len(SubBands) + (len(SubBands) - int(b)), true
}

// RankEmoji picks a tier emoji from the prefix of a free-form rank string.
// Unknown prefixes give an empty string.
func RankEmoji(rank string) string {
	switch {
	case strings.HasPrefix(rank, "S"):
		return TierS.Emoji()
	case strings.HasPrefix(rank, "A+"):
		return TierAPlus.Emoji()
	case strings.HasPrefix(rank, "A "):
		return TierA.Emoji()
	case strings.HasPrefix(rank, "A-"):
		return TierAMinus.Emoji()
	case strings.HasPrefix(rank, "B+"):
		return TierBPlus.Emoji()
	}
	return ""
}

// StarsFromFloat maps an exact half-step value onto Stars.
func StarsFromFloat(v float64) (Stars, bool) {
	for _, s := range StarSteps {
		if s.Float() == v {
			return s, true
		}
	}
	return 0, false
}

// Float returns the star value, e.g. 4.5.
func (s Stars) Float() float64 {
	return float64(s) / 2
}

// Emoji returns the chat short code for the star value.
func (s Stars) Emoji() string {
	switch s {
	case FiveStars:
		return ":5_star:"
	case FourHalfStars:
		return ":4pt5_star:"
	case FourStars:
		return ":4_star:"
	case ThreeHalfStar:
		return ":3pt5_star:"
	case ThreeStars:
		return ":3_star:"
	case TwoHalfStars:
		return ":2pt5_star:"
	case TwoStars:
		return ":2_star:"
	case OneHalfStars:
		return ":1pt5_star:"
	case OneStar:
		return ":1_star:"
	case HalfStar:
		return ":0pt5_star:"
	}
	return FallbackStarEmoji
}

func (s Stars) String() string {
	return fmt.Sprintf("%g", s.Float())
}

// FFAEmoji returns the emoji for a raw star value, falling back to a plain
// star glyph for anything that is not a canonical half step.
func FFAEmoji(v float64) string {
	s, ok := StarsFromFloat(v)
	if !ok {
		return FallbackStarEmoji
	}
	return s.Emoji()
}

// StarPoints returns the point value of a star rating (three per star).
func StarPoints(v float64) (float64, bool) {
	s, ok := StarsFromFloat(v)
	if !ok {
		return 0, false
	}
	return s.Float() * 3, true
}

// Percentage expresses points as a share of the given maximum.
func Percentage(points, limit float64) float64 {
	if limit == 0 {
		return 0
	}
	return points / limit * 100
}

// CombinedScore averages the classic and FFA percentages of a player. A
// rating that cannot be scored counts as zero.
func CombinedScore(rank string, stars float64) float64 {
	var rankPct, starPct float64
	if pts, ok := RankPoints(rank); ok {
		rankPct = Percentage(float64(pts), MaxRankPoints)
	}
	if pts, ok := StarPoints(stars); ok {
		starPct = Percentage(pts, MaxStarPoints)
	}
	return (rankPct + starPct) / 2
}
