package leaderboard

import (
	"sort"

	"github.com/mauv0809/tierboard/internal/rating"
)

// ParseKind maps a board name from a URL or command onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Classic, FFA:
		return Kind(s), true
	}
	return "", false
}

// resolvePosition returns the stored display position, or the 1-based index
// of the player in the input when none is stored.
func resolvePosition(p Player, index int) Player {
	if p.Position <= 0 {
		p.Position = index + 1
	}
	return p
}

// GroupClassic buckets players by tier and sub-band. Players whose rank is not
// a known label are left out and counted in dropped.
func GroupClassic(players []Player) (buckets []ClassicBucket, dropped int) {
	type slot struct {
		tier rating.Tier
		band rating.SubBand
	}
	grid := make(map[slot][]Player)
	for i, p := range players {
		tier, band, ok := rating.ClassicInfo(p.Rank)
		if !ok {
			dropped++
			continue
		}
		key := slot{tier, band}
		grid[key] = append(grid[key], resolvePosition(p, i))
	}

	for _, tier := range rating.Tiers {
		bucket := ClassicBucket{Tier: tier}
		for _, band := range rating.SubBands {
			members := grid[slot{tier, band}]
			if len(members) == 0 {
				continue
			}
			bucket.Bands = append(bucket.Bands, BandGroup{Band: band, Players: members})
		}
		if len(bucket.Bands) > 0 {
			buckets = append(buckets, bucket)
		}
	}
	return buckets, dropped
}

// GroupFFA buckets players by their exact star value, highest first. Values
// outside the canonical half steps still get their own bucket.
func GroupFFA(players []Player) []FFABucket {
	index := make(map[float64]int)
	var buckets []FFABucket
	for i, p := range players {
		j, ok := index[p.Stars]
		if !ok {
			j = len(buckets)
			index[p.Stars] = j
			buckets = append(buckets, FFABucket{Stars: p.Stars})
		}
		buckets[j].Players = append(buckets[j].Players, resolvePosition(p, i))
	}
	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].Stars > buckets[b].Stars
	})
	return buckets
}
