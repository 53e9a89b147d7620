package roi

const (
	WorkingDaysPerMonth = 22
	WeeksPerMonth       = 4.33

	DailyAutomation   = 0.7
	WeeklyAutomation  = 0.6
	MonthlyAutomation = 0.5

	// MaxImprovedRate caps any lifted conversion rate.
	MaxImprovedRate = 0.95
)

// laborInputs names the weekly and monthly per-staff hour fields of an
// industry. Daily hours are always dailyAdminHrs.
type laborInputs struct {
	weekly  []string
	monthly []string
}

type laborResult struct {
	automatedDaily   float64
	automatedWeekly  float64
	automatedMonthly float64
}

func (r laborResult) hours() float64 {
	return r.automatedDaily + r.automatedWeekly + r.automatedMonthly
}

func computeLabor(v Values, in laborInputs) laborResult {
	staff := v.NonNegative("staffCount")

	daily := v.NonNegative("dailyAdminHrs") * WorkingDaysPerMonth * staff

	var weeklyPerStaff float64
	for _, id := range in.weekly {
		weeklyPerStaff += v.NonNegative(id)
	}
	weekly := weeklyPerStaff * WeeksPerMonth * staff

	var monthlyPerStaff float64
	for _, id := range in.monthly {
		monthlyPerStaff += v.NonNegative(id)
	}
	monthly := monthlyPerStaff * staff

	return laborResult{
		automatedDaily:   daily * DailyAutomation,
		automatedWeekly:  weekly * WeeklyAutomation,
		automatedMonthly: monthly * MonthlyAutomation,
	}
}

// startBuilder records the shared labor breakdown and assumption and
// returns the automated hours and their cost.
func startBuilder(v Values, in laborInputs) (*impactBuilder, float64, float64) {
	labor := computeLabor(v, in)
	b := &impactBuilder{}
	b.add("Daily admin (automated hrs)", labor.automatedDaily)
	b.add("Weekly tasks (automated hrs)", labor.automatedWeekly)
	b.add("Monthly tasks (automated hrs)", labor.automatedMonthly)
	b.assume("70% daily, 60% weekly, 50% monthly automation")

	hours := labor.hours()
	return b, hours, hours * v.NonNegative("hourly")
}

// conversionLift is the relative lift earned by replacing the current
// response time with an instant one. A business already answering in 0
// minutes gains nothing; the lift reaches ceiling at an hour or slower.
func conversionLift(responseMinutes, ceiling float64) float64 {
	return clamp01(responseMinutes/60) * ceiling
}

// improvedRate applies lift to base, capped at MaxImprovedRate and never
// below base.
func improvedRate(base, lift float64) float64 {
	improved := base * (1 + lift)
	if improved > MaxImprovedRate {
		improved = MaxImprovedRate
	}
	if improved < base {
		return base
	}
	return improved
}
