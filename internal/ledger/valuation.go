package ledger

import (
	"math"

	"partsledger/backend/internal/domain"
)

// ApplyAverageCost mutates the weighted-average lot for a product and returns
// it, creating the lot if the product has never been stocked. A positive
// qtyDelta is stock-in: the average cost is re-weighted by the incoming units.
// A non-positive qtyDelta is stock-out: quantity drops (clamped at zero) and
// the average is left untouched, because average cost is a purchase-weighted
// metric and sales must not move it.
//
// A zero qtyDelta is a no-op. A negative unitCost is accepted as-is; cost
// validation is the caller's job.
func ApplyAverageCost(lots map[string]*domain.InventoryLot, productID string, qtyDelta, unitCost float64) *domain.InventoryLot {
	lot, ok := lots[productID]
	if !ok {
		lot = &domain.InventoryLot{ProductID: productID, AvgCost: unitCost}
		lots[productID] = lot
	}

	if qtyDelta > 0 {
		totalCost := lot.QtyOnHand*lot.AvgCost + qtyDelta*unitCost
		newQty := lot.QtyOnHand + qtyDelta
		if newQty != 0 {
			lot.AvgCost = totalCost / newQty
		}
		lot.QtyOnHand = newQty
		return lot
	}

	lot.QtyOnHand = math.Max(0, lot.QtyOnHand+qtyDelta)
	return lot
}

// CostAtSale returns the cost of goods for a hypothetical sale of qty units
// at the product's current average cost. No lot means zero cost. Callers must
// capture this before running the purchase side of the same transaction, or
// the average will already reflect the incoming stock.
func CostAtSale(lots map[string]*domain.InventoryLot, productID string, qty float64) float64 {
	lot, ok := lots[productID]
	if !ok {
		return 0
	}
	return lot.AvgCost * qty
}

// InventoryValue is the book value of all stock on hand.
func InventoryValue(lots map[string]*domain.InventoryLot) float64 {
	total := 0.0
	for _, lot := range lots {
		total += lot.QtyOnHand * lot.AvgCost
	}
	return total
}
