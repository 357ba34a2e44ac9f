package valuation

// Display range around the current price and how much of the excess survives
const (
	displayCapRatio   = 1.3
	displayFloorRatio = 0.7
	displayDamping    = 0.2
)

// DisplayPrice compresses a raw target into a bounded display range.
//
// Targets within 70%-130% of the current price pass through unchanged.
// Beyond that band only 20% of the excess is kept:
// - above: upper + (raw-upper)*0.2, SOFT_CAP
// - below: lower - (lower-raw)*0.2, SOFT_FLOOR
//
// A missing or non-positive target yields no display price.
func DisplayPrice(currentPrice float64, rawTarget *float64) (*float64, PriceStatus) {
	if rawTarget == nil || !isFinite(*rawTarget) || *rawTarget <= 0 {
		return nil, PriceNormal
	}
	if !isFinite(currentPrice) || currentPrice <= 0 {
		return nil, PriceNormal
	}

	raw := *rawTarget
	upper := currentPrice * displayCapRatio
	lower := currentPrice * displayFloorRatio

	if raw > upper {
		return ptr(Round2(upper + (raw-upper)*displayDamping)), PriceSoftCap
	}
	if raw < lower {
		return ptr(Round2(lower - (lower-raw)*displayDamping)), PriceSoftFloor
	}
	return ptr(Round2(raw)), PriceNormal
}

// applyDisplay sets the display price and status on a result
func applyDisplay(r *AlgorithmResult, currentPrice float64, target *float64) {
	r.DisplayPrice, r.PriceStatus = DisplayPrice(currentPrice, target)
}
