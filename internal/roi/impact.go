package roi

import "math"

// BreakdownItem is one labelled display quantity, already rounded.
type BreakdownItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Impact is the result of a computation. Currency amounts are monthly
// unless named otherwise and carry full precision.
type Impact struct {
	MonthlyHoursSaved  float64         `json:"monthlyHoursSaved"`
	StaffCostSavings   float64         `json:"staffCostSavings"`
	RevenueLift        float64         `json:"revenueLift"`
	TotalMonthlyImpact float64         `json:"totalMonthlyImpact"`
	AnnualImpact       float64         `json:"annualImpact"`
	Breakdown          []BreakdownItem `json:"breakdown"`
	Assumptions        []string        `json:"assumptions"`
}

// Formatted is the display rendering of an Impact.
type Formatted struct {
	MonthlyHoursSaved  string            `json:"monthlyHoursSaved"`
	StaffCostSavings   string            `json:"staffCostSavings"`
	RevenueLift        string            `json:"revenueLift"`
	TotalMonthlyImpact string            `json:"totalMonthlyImpact"`
	AnnualImpact       string            `json:"annualImpact"`
	Breakdown          map[string]string `json:"breakdown"`
}

// Format renders every figure for display.
func (i Impact) Format() Formatted {
	breakdown := make(map[string]string, len(i.Breakdown))
	for _, item := range i.Breakdown {
		breakdown[item.Label] = FormatCount(item.Value)
	}
	return Formatted{
		MonthlyHoursSaved:  FormatCount(i.MonthlyHoursSaved),
		StaffCostSavings:   FormatCurrency(i.StaffCostSavings),
		RevenueLift:        FormatCurrency(i.RevenueLift),
		TotalMonthlyImpact: FormatCurrency(i.TotalMonthlyImpact),
		AnnualImpact:       FormatCurrency(i.AnnualImpact),
		Breakdown:          breakdown,
	}
}

// BreakdownValue looks up a breakdown entry by label.
func (i Impact) BreakdownValue(label string) (float64, bool) {
	for _, item := range i.Breakdown {
		if item.Label == label {
			return item.Value, true
		}
	}
	return 0, false
}

type impactBuilder struct {
	breakdown   []BreakdownItem
	assumptions []string
}

func (b *impactBuilder) add(label string, value float64) {
	b.breakdown = append(b.breakdown, BreakdownItem{Label: label, Value: roundCount(value)})
}

func (b *impactBuilder) assume(s ...string) {
	b.assumptions = append(b.assumptions, s...)
}

func (b *impactBuilder) build(hours, savings, revenue float64) Impact {
	hours, savings, revenue = finite(hours), finite(savings), finite(revenue)
	total := savings + revenue
	return Impact{
		MonthlyHoursSaved:  hours,
		StaffCostSavings:   savings,
		RevenueLift:        revenue,
		TotalMonthlyImpact: total,
		AnnualImpact:       total * 12,
		Breakdown:          b.breakdown,
		Assumptions:        b.assumptions,
	}
}

// maxFigure bounds every output so totals and annual figures stay finite.
const maxFigure = 1e15

// finite maps NaN, infinities and negatives (including -0) to 0 and caps
// the rest at maxFigure.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		return 0
	}
	return math.Min(x, maxFigure)
}

func roundCount(x float64) float64 {
	return math.Round(finite(x))
}
