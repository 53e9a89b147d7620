package roi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func assertWellFormed(t *testing.T, impact Impact) {
	t.Helper()
	for name, x := range map[string]float64{
		"MonthlyHoursSaved":  impact.MonthlyHoursSaved,
		"StaffCostSavings":   impact.StaffCostSavings,
		"RevenueLift":        impact.RevenueLift,
		"TotalMonthlyImpact": impact.TotalMonthlyImpact,
		"AnnualImpact":       impact.AnnualImpact,
	} {
		assert.False(t, math.IsNaN(x) || math.IsInf(x, 0), "%s not finite", name)
		assert.GreaterOrEqual(t, x, 0.0, "%s negative", name)
	}
	assert.Equal(t, impact.TotalMonthlyImpact*12, impact.AnnualImpact)
	assert.Equal(t, impact.StaffCostSavings+impact.RevenueLift, impact.TotalMonthlyImpact)
}

// ==========================
// Tests
// ==========================

func TestCompute_DefaultsAreWellFormed(t *testing.T) {
	for _, industry := range Industries() {
		t.Run(string(industry), func(t *testing.T) {
			impact := Compute(industry, Defaults(industry))
			assertWellFormed(t, impact)
			assert.Greater(t, impact.TotalMonthlyImpact, 0.0)
			assert.NotEmpty(t, impact.Breakdown)
			assert.Equal(t, "70% daily, 60% weekly, 50% monthly automation", impact.Assumptions[0])
		})
	}
}

func TestCompute_HomeServicesDefaults(t *testing.T) {
	impact := Compute(HomeServices, Defaults(HomeServices))

	// 66*0.7 + 103.92*0.6 + 30*0.5
	assert.InDelta(t, 123.552, impact.MonthlyHoursSaved, 1e-9)
	assert.InDelta(t, 123.552*35, impact.StaffCostSavings, 1e-6)

	lift := (35.0 / 60.0) * 0.35
	added := 200 * (0.45*(1+lift) - 0.45)
	recovered := 200 * 0.55 * 0.18
	wins := (added + recovered) * 0.75 * 0.35
	assert.InDelta(t, wins*8500, impact.RevenueLift, 1e-6)

	v, ok := impact.BreakdownValue("Recovered leads")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
	v, ok = impact.BreakdownValue("Additional wins")
	require.True(t, ok)
	assert.Equal(t, 10.0, v)

	again := Compute(HomeServices, Defaults(HomeServices))
	assert.Equal(t, impact.RevenueLift, again.RevenueLift)
	assert.Equal(t, impact, again)
}

func TestCompute_HealthcareCountsWeeklyBilling(t *testing.T) {
	v := Values{"staffCount": 1, "weeklyBillingHrs": 10, "hourly": 20}
	impact := Compute(Healthcare, v)

	assert.InDelta(t, 10*4.33*0.6, impact.MonthlyHoursSaved, 1e-9)
	assert.InDelta(t, 10*4.33*0.6*20, impact.StaffCostSavings, 1e-9)
	assert.Equal(t, 0.0, impact.RevenueLift)
}

func TestCompute_BackOfficeOps(t *testing.T) {
	v := Defaults(BackOfficeOps)
	impact := Compute(BackOfficeOps, v)

	labor := (1*22*6)*0.7 + ((6+4)*4.33*6)*0.6
	assert.Equal(t, 0.0, impact.RevenueLift)
	assert.InDelta(t, labor, impact.MonthlyHoursSaved, 1e-9)
	assert.InDelta(t, labor*40+8000*0.04*0.8*65, impact.StaffCostSavings, 1e-6)
	assertWellFormed(t, impact)

	avoided, ok := impact.BreakdownValue("Errors avoided")
	require.True(t, ok)
	assert.Equal(t, 256.0, avoided)
	items, _ := impact.BreakdownValue("Items / month")
	assert.Equal(t, 8000.0, items)
	assert.Contains(t, impact.Assumptions, "80% error reduction from automation")
}

func TestCompute_ZeroStaff(t *testing.T) {
	for _, industry := range Industries() {
		v := Defaults(industry)
		v["staffCount"] = 0
		impact := Compute(industry, v)
		assert.Equal(t, 0.0, impact.MonthlyHoursSaved, industry)
		if industry != BackOfficeOps {
			assert.Equal(t, 0.0, impact.StaffCostSavings, industry)
		}
	}
}

func TestCompute_ZeroBaseRateOrVolume(t *testing.T) {
	tests := []struct {
		industry Industry
		rate     string
		volume   string
	}{
		{Healthcare, "bookRate", "inquiries"},
		{HomeServices, "setRate", "leads"},
		{Legal, "consultSet", "inquiries"},
		{Agency, "meetingRate", "qualifiedInbound"},
	}

	for _, tt := range tests {
		t.Run(string(tt.industry), func(t *testing.T) {
			v := Defaults(tt.industry)
			v[tt.rate] = 0
			assert.Equal(t, 0.0, Compute(tt.industry, v).RevenueLift)

			v = Defaults(tt.industry)
			v[tt.volume] = 0
			assert.Equal(t, 0.0, Compute(tt.industry, v).RevenueLift)
		})
	}
}

func TestCompute_LiftGrowsWithCurrentResponseTimeAndSaturates(t *testing.T) {
	v := Values{"leads": 1000, "setRate": 50, "showRate": 100, "closeRate": 100, "avgJob": 1}

	// instant responders have nothing left to gain
	v["speedToLead"] = 0
	added, _ := Compute(HomeServices, v).BreakdownValue("Added consults")
	assert.Equal(t, 0.0, added)

	var last float64
	for _, mins := range []float64{0, 10, 30, 59, 60, 120, 480} {
		v["speedToLead"] = mins
		added, _ := Compute(HomeServices, v).BreakdownValue("Added consults")
		assert.GreaterOrEqual(t, added, last, "mins=%v", mins)
		last = added
	}
	v["speedToLead"] = 30
	mid, _ := Compute(HomeServices, v).BreakdownValue("Added consults")
	assert.Less(t, mid, last, "slower current response earns more lift until the ceiling")

	// capped at base * (1 + 0.35)
	assert.Equal(t, 175.0, last)
	v["speedToLead"] = 1e9
	huge, _ := Compute(HomeServices, v).BreakdownValue("Added consults")
	assert.Equal(t, last, huge)

	for _, tt := range []struct {
		industry Industry
		ceiling  float64
	}{
		{Healthcare, HealthcareBookingLift},
		{Legal, LegalSetLift},
		{Agency, AgencyMeetingLift},
		{HomeServices, HomeServicesSetLift},
	} {
		assert.Equal(t, 0.0, conversionLift(0, tt.ceiling), tt.industry)
		assert.Equal(t, tt.ceiling, conversionLift(60, tt.ceiling), tt.industry)
		assert.Equal(t, tt.ceiling, conversionLift(10000, tt.ceiling), tt.industry)
		assert.LessOrEqual(t, improvedRate(0.5, conversionLift(10000, tt.ceiling)), 0.5*(1+tt.ceiling)+1e-12, tt.industry)
	}

	v["setRate"] = 90
	v["speedToLead"] = 60
	added, _ = Compute(HomeServices, v).BreakdownValue("Added consults")
	assert.Equal(t, 50.0, added, "improved rate capped at 95%")
}

func TestImprovedRate(t *testing.T) {
	assert.Equal(t, 0.5, improvedRate(0.5, 0))
	assert.InDelta(t, 0.6, improvedRate(0.5, 0.2), 1e-12)
	assert.Equal(t, MaxImprovedRate, improvedRate(0.9, 0.35))
	assert.Equal(t, 0.97, improvedRate(0.97, 0.1), "never below base")
	assert.Equal(t, 0.0, conversionLift(-5, 0.25))
	assert.Equal(t, 0.25, conversionLift(600, 0.25))
}

func TestCompute_HostileInputs(t *testing.T) {
	inputs := []Values{
		{},
		{"staffCount": -3, "dailyAdminHrs": 5, "hourly": 40},
		{"staffCount": math.NaN(), "hourly": math.Inf(1)},
		{"inquiries": math.Inf(1), "bookRate": 400, "showRate": -20, "acceptRate": 150, "avgCase": 10},
		{"leads": 1e308, "setRate": 50, "showRate": 50, "closeRate": 50, "avgJob": 1e308},
		{"items": -100, "errorRate": 500, "costPerError": -1},
	}

	for _, industry := range Industries() {
		for _, v := range inputs {
			assertWellFormed(t, Compute(industry, v))
		}
	}
}

func TestCompute_UnknownIndustry(t *testing.T) {
	impact := Compute(Industry("aerospace"), Values{"staffCount": 10})
	assert.Equal(t, 0.0, impact.TotalMonthlyImpact)
	assert.Empty(t, impact.Breakdown)
}

type flatCalculator struct{}

func (flatCalculator) Industry() Industry { return Legal }
func (flatCalculator) Compute(Values) Impact {
	b := &impactBuilder{}
	return b.build(1, 100, 0)
}

func TestEngine_Register(t *testing.T) {
	e := NewEngine()
	e.Register(flatCalculator{})

	assert.Equal(t, 1200.0, e.Compute(Legal, nil).AnnualImpact)
	// package-level engine untouched
	assert.NotEqual(t, 1200.0, Compute(Legal, Defaults(Legal)).AnnualImpact)
}

func TestParseIndustry(t *testing.T) {
	got, err := ParseIndustry(" Home-Services ")
	require.NoError(t, err)
	assert.Equal(t, HomeServices, got)
	assert.Equal(t, "High-Ticket Home Services", got.Label())

	_, err = ParseIndustry("retail")
	assert.Error(t, err)
}
