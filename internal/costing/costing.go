package costing

import "math"

// DefaultMarginPct is the suggested margin when the caller does not
// provide one.
const DefaultMarginPct = 40.0

// RecipeTotals is the derived cost snapshot of a recipe
type RecipeTotals struct {
	TotalCost      float64
	CostPerPortion float64
	MarginPct      float64
	TotalProfit    float64
}

// Line is the minimal view of a recipe line the engine needs:
// quantity and the live per-unit cost of whatever it references.
type Line struct {
	Quantity float64
	UnitCost float64
}

// Round2 rounds to 2 decimal places (money, unit costs)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimal places (stock quantities in kg/l)
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// LineCost computes quantity × unit cost, rounded for storage.
// Running sums over lines should use the unrounded product.
func LineCost(quantity, unitCost float64) float64 {
	return Round2(quantity * unitCost)
}

// ComputeRecipeTotals derives the full cost snapshot from live line
// costs. Guards: yield ≤ 0 gives cost-per-portion 0, and
// cost-per-portion ≤ 0 gives margin 0.
func ComputeRecipeTotals(lines []Line, portionYield int, salePrice float64) RecipeTotals {
	totalCost := 0.0
	for _, l := range lines {
		totalCost += l.Quantity * l.UnitCost
	}
	totalCost = Round2(totalCost)

	costPerPortion := 0.0
	if portionYield > 0 {
		costPerPortion = Round2(totalCost / float64(portionYield))
	}

	marginPct := 0.0
	if costPerPortion > 0 {
		marginPct = Round2((salePrice - costPerPortion) / costPerPortion * 100)
	}

	profit := Round2((salePrice - costPerPortion) * float64(portionYield))

	return RecipeTotals{
		TotalCost:      totalCost,
		CostPerPortion: costPerPortion,
		MarginPct:      marginPct,
		TotalProfit:    profit,
	}
}

// SuggestPrice proposes a sale price for a unit cost and desired
// margin. Margins at or above 100% would divide by zero or flip the
// sign, so those simply double the cost.
func SuggestPrice(unitCost, desiredMarginPct float64) float64 {
	if desiredMarginPct >= 100 {
		return Round2(unitCost * 2)
	}
	return Round2(unitCost / (1 - desiredMarginPct/100))
}

// WeightedAverageCost blends existing stock value with a new purchase:
// (stock×cost + purchaseTotal) / (stock + qty)
func WeightedAverageCost(existingStock, existingUnitCost, quantity, purchaseTotal float64) float64 {
	newStock := existingStock + quantity
	if newStock == 0 {
		return existingUnitCost
	}
	return (existingStock*existingUnitCost + purchaseTotal) / newStock
}
