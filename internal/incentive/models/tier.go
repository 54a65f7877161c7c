package models

// Tier is a named recognition level reached at Threshold.
type Tier struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// BadgeTiers are reached by lifetime donation count.
var BadgeTiers = []Tier{
	{Name: "Bronze", Threshold: 1},
	{Name: "Silver", Threshold: 3},
	{Name: "Gold", Threshold: 5},
	{Name: "Platinum", Threshold: 10},
}

// PrizeTiers are reached by point total. Kept apart from BadgeTiers.
var PrizeTiers = []Tier{
	{Name: "Supporter", Threshold: 100},
	{Name: "Contributor", Threshold: 250},
	{Name: "Helper", Threshold: 400},
	{Name: "Advocate", Threshold: 600},
	{Name: "Champion", Threshold: 800},
	{Name: "Guardian", Threshold: 1000},
	{Name: "Lifesaver", Threshold: 1300},
	{Name: "Hero", Threshold: 1600},
	{Name: "Legend", Threshold: 2000},
}

// BadgeTierOf returns the badge for a donation count. ok is false below the first threshold.
func BadgeTierOf(donations int) (Tier, bool) {
	return tierOf(BadgeTiers, donations)
}

// PrizeTierOf returns the prize tier for a point total. ok is false below the first threshold.
func PrizeTierOf(points int) (Tier, bool) {
	return tierOf(PrizeTiers, points)
}

// NextBadgeTier is the first badge above donations, if any.
func NextBadgeTier(donations int) (Tier, bool) {
	return nextTier(BadgeTiers, donations)
}

// NextPrizeTier is the first prize tier above points, if any.
func NextPrizeTier(points int) (Tier, bool) {
	return nextTier(PrizeTiers, points)
}

// tierOf picks the greatest threshold <= value. tiers must be strictly ascending.
func tierOf(tiers []Tier, value int) (Tier, bool) {
	var (
		best  Tier
		found bool
	)
	for _, t := range tiers {
		if t.Threshold > value {
			break
		}
		best, found = t, true
	}
	return best, found
}

func nextTier(tiers []Tier, value int) (Tier, bool) {
	for _, t := range tiers {
		if t.Threshold > value {
			return t, true
		}
	}
	return Tier{}, false
}
