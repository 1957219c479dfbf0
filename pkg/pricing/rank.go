package pricing

import (
	"math"
	"sort"

	"scout-base/pkg/models"
)

// Rank orders offers for display: effective price ascending, rating
// descending, in-stock first, delivery days ascending with unknown delivery
// last, review count descending. The sort is stable, so equal-key offers keep
// their input order, and the input slice is left untouched.
func Rank(offers []models.ProductOffer) []models.ProductOffer {
	out := make([]models.ProductOffer, len(offers))
	copy(out, offers)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if cmp := a.Normalized.Effective.Amount.Cmp(b.Normalized.Effective.Amount); cmp != 0 {
			return cmp < 0
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.InStock != b.InStock {
			return a.InStock
		}
		if da, db := deliveryKey(a), deliveryKey(b); da != db {
			return da < db
		}
		return a.Reviews > b.Reviews
	})
	return out
}

func deliveryKey(o models.ProductOffer) int {
	if !o.HasDelivery {
		return math.MaxInt
	}
	return o.DeliveryDays
}
