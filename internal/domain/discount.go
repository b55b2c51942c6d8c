package domain

// DiscountTier maps a points cost to a percentage off. The table is global
// and static; redemption is an exact match on the percentage, not a range.
type DiscountTier struct {
	Points  int `json:"points"`
	Percent int `json:"discount"`
}

var discountTiers = []DiscountTier{
	{Points: 20, Percent: 10},
	{Points: 40, Percent: 15},
	{Points: 60, Percent: 20},
	{Points: 80, Percent: 25},
}

// DiscountTiers returns the redemption tiers in ascending points order.
func DiscountTiers() []DiscountTier {
	tiers := make([]DiscountTier, len(discountTiers))
	copy(tiers, discountTiers)
	return tiers
}

// FindTierByPercent looks up the tier matching the requested percentage.
func FindTierByPercent(percent int) (DiscountTier, bool) {
	for _, t := range discountTiers {
		if t.Percent == percent {
			return t, true
		}
	}
	return DiscountTier{}, false
}

// DebitPoints applies a redemption cost to a balance. When the balance cannot
// cover the cost it is returned unchanged with ok=false.
func DebitPoints(balance, cost int) (updated int, ok bool) {
	if balance < cost {
		return balance, false
	}
	return balance - cost, true
}
