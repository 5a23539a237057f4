package costing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		// 1.005 is stored as 1.00499..., so ×100 lands below 100.5
		{1.005, 1.0},
		{1.004, 1.0},
		{1.006, 1.01},
		// -2.675×100 hits -267.5 exactly; halves round away from zero
		{-2.675, -2.68},
		{0, 0},
		{12.3456, 12.35},
	}
	for _, c := range cases {
		if got := Round2(c.in); !almostEqual(got, c.want) {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRound3(t *testing.T) {
	if got := Round3(0.12345); !almostEqual(got, 0.123) {
		t.Errorf("Round3(0.12345) = %v, want 0.123", got)
	}
	if got := Round3(2.9996); !almostEqual(got, 3.0) {
		t.Errorf("Round3(2.9996) = %v, want 3.0", got)
	}
}

func TestLineCost(t *testing.T) {
	// 0.15 kg of ground beef at 12.00/kg
	if got := LineCost(0.15, 12.00); !almostEqual(got, 1.80) {
		t.Errorf("LineCost(0.15, 12.00) = %v, want 1.80", got)
	}
}

func TestComputeRecipeTotals(t *testing.T) {
	lines := []Line{
		{Quantity: 0.15, UnitCost: 12.00},
		{Quantity: 0.05, UnitCost: 8.00},
		{Quantity: 1, UnitCost: 0.67},
	}
	got := ComputeRecipeTotals(lines, 1, 8.50)

	if !almostEqual(got.TotalCost, 2.87) {
		t.Errorf("TotalCost = %v, want 2.87", got.TotalCost)
	}
	if !almostEqual(got.CostPerPortion, 2.87) {
		t.Errorf("CostPerPortion = %v, want 2.87", got.CostPerPortion)
	}
	// (8.50 - 2.87) / 2.87 * 100
	if !almostEqual(got.MarginPct, 196.17) {
		t.Errorf("MarginPct = %v, want 196.17", got.MarginPct)
	}
	if !almostEqual(got.TotalProfit, 5.63) {
		t.Errorf("TotalProfit = %v, want 5.63", got.TotalProfit)
	}
}

func TestComputeRecipeTotalsMultiPortion(t *testing.T) {
	lines := []Line{{Quantity: 2, UnitCost: 3.00}}
	got := ComputeRecipeTotals(lines, 4, 5.00)

	if !almostEqual(got.CostPerPortion, 1.50) {
		t.Errorf("CostPerPortion = %v, want 1.50", got.CostPerPortion)
	}
	if !almostEqual(got.TotalProfit, 14.00) {
		t.Errorf("TotalProfit = %v, want 14.00", got.TotalProfit)
	}
}

func TestComputeRecipeTotalsGuards(t *testing.T) {
	lines := []Line{{Quantity: 1, UnitCost: 5}}

	got := ComputeRecipeTotals(lines, 0, 10)
	if got.CostPerPortion != 0 {
		t.Errorf("zero yield: CostPerPortion = %v, want 0", got.CostPerPortion)
	}
	if got.MarginPct != 0 {
		t.Errorf("zero yield: MarginPct = %v, want 0", got.MarginPct)
	}

	got = ComputeRecipeTotals(nil, 2, 10)
	if got.TotalCost != 0 || got.MarginPct != 0 {
		t.Errorf("empty lines: got %+v, want zero cost and margin", got)
	}
}

func TestSuggestPrice(t *testing.T) {
	// cost / (1 - margin/100)
	if got := SuggestPrice(6.00, 40); !almostEqual(got, 10.00) {
		t.Errorf("SuggestPrice(6.00, 40) = %v, want 10.00", got)
	}
	if got := SuggestPrice(3.00, 50); !almostEqual(got, 6.00) {
		t.Errorf("SuggestPrice(3.00, 50) = %v, want 6.00", got)
	}
	// Margins >= 100 fall back to doubling the cost
	if got := SuggestPrice(3.00, 100); !almostEqual(got, 6.00) {
		t.Errorf("SuggestPrice(3.00, 100) = %v, want 6.00", got)
	}
	if got := SuggestPrice(3.00, 150); !almostEqual(got, 6.00) {
		t.Errorf("SuggestPrice(3.00, 150) = %v, want 6.00", got)
	}
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 kg at 12.00 plus 5 kg bought for 75.00 -> (120+75)/15 = 13.00
	if got := WeightedAverageCost(10, 12.00, 5, 75.00); !almostEqual(got, 13.00) {
		t.Errorf("WeightedAverageCost = %v, want 13.00", got)
	}
	// Restocking from zero takes the purchase cost
	if got := WeightedAverageCost(0, 0, 4, 20.00); !almostEqual(got, 5.00) {
		t.Errorf("WeightedAverageCost from empty = %v, want 5.00", got)
	}
	// Zero resulting stock keeps the previous cost
	if got := WeightedAverageCost(-3, 10.00, 3, 30.00); !almostEqual(got, 10.00) {
		t.Errorf("WeightedAverageCost zero total = %v, want 10.00", got)
	}
}
