package rating

// Tier is a classic leaderboard tier. The zero value is the highest tier.
type Tier int

const (
	TierS Tier = iota
	TierAPlus
	TierA
	TierAMinus
	TierBPlus
)

// SubBand splits a tier into three bands.
type SubBand int

const (
	SubBandHigh SubBand = iota
	SubBandMid
	SubBandLow
)

// Stars is an FFA rating counted in half stars, so Stars(9) is 4.5 stars.
type Stars int

const (
	HalfStar      Stars = 1
	OneStar       Stars = 2
	OneHalfStars  Stars = 3
	TwoStars      Stars = 4
	TwoHalfStars  Stars = 5
	ThreeStars    Stars = 6
	ThreeHalfStar Stars = 7
	FourStars     Stars = 8
	FourHalfStars Stars = 9
	FiveStars     Stars = 10
)

// Max points a rank or star rating can be worth.
const (
	MaxRankPoints = 15
	MaxStarPoints = 15.0
)

// FallbackStarEmoji is used for star values outside the canonical half steps.
const FallbackStarEmoji = "⭐"

// Canonical orders, highest first.
var (
	Tiers     = []Tier{TierS, TierAPlus, TierA, TierAMinus, TierBPlus}
	SubBands  = []SubBand{SubBandHigh, SubBandMid, SubBandLow}
	StarSteps = []Stars{FiveStars, FourHalfStars, FourStars, ThreeHalfStar, ThreeStars, TwoHalfStars, TwoStars, OneHalfStars, OneStar, HalfStar}
)
