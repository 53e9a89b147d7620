package roi

import "fmt"

// Calculator computes the impact for one industry.
type Calculator interface {
	Industry() Industry
	Compute(v Values) Impact
}

const (
	HealthcareBookingLift  = 0.25
	HealthcareNoShowRecov  = 0.20
	HomeServicesSetLift    = 0.35
	HomeServicesLeadRecov  = 0.18
	LegalSetLift           = 0.20
	LegalNoShowRecov       = 0.15
	AgencyMeetingLift      = 0.20
	AgencyNotSetRecov      = 0.12
	BackOfficeErrorReduced = 0.80
)

func pct(x float64) string {
	return fmt.Sprintf("%.0f%%", x*100)
}

type healthcareCalculator struct{}

func (healthcareCalculator) Industry() Industry { return Healthcare }

func (healthcareCalculator) Compute(v Values) Impact {
	b, hours, savings := startBuilder(v, laborInputs{
		weekly:  []string{"weeklyBillingHrs"},
		monthly: []string{"monthlyFollowupHrs"},
	})

	inquiries := v.NonNegative("inquiries")
	base := v.Rate("bookRate")
	show := v.Rate("showRate")
	accept := v.Rate("acceptRate")

	improved := improvedRate(base, conversionLift(v.NonNegative("responseMins"), HealthcareBookingLift))
	added := inquiries * (improved - base)
	recovered := inquiries * base * (1 - show) * HealthcareNoShowRecov
	accepted := added*show*accept + recovered*accept
	revenue := accepted * v.NonNegative("avgCase")

	b.add("Added bookings", added)
	b.add("Recovered no-shows", recovered)
	b.add("Accepted treatments", accepted)
	b.assume(
		"Up to "+pct(HealthcareBookingLift)+" booking lift from instant response",
		pct(HealthcareNoShowRecov)+" no-show recovery via reminders",
	)
	return b.build(hours, savings, revenue)
}

type homeServicesCalculator struct{}

func (homeServicesCalculator) Industry() Industry { return HomeServices }

func (homeServicesCalculator) Compute(v Values) Impact {
	b, hours, savings := startBuilder(v, laborInputs{
		weekly:  []string{"weeklyCoordHrs"},
		monthly: []string{"monthlyFollowupHrs"},
	})

	leads := v.NonNegative("leads")
	base := v.Rate("setRate")
	show := v.Rate("showRate")
	closeRate := v.Rate("closeRate")

	improved := improvedRate(base, conversionLift(v.NonNegative("speedToLead"), HomeServicesSetLift))
	added := leads * (improved - base)
	recovered := leads * (1 - base) * HomeServicesLeadRecov
	// a zero set rate means no funnel to lift or recover from
	if base == 0 {
		recovered = 0
	}
	wins := (added + recovered) * show * closeRate
	revenue := wins * v.NonNegative("avgJob")

	b.add("Added consults", added)
	b.add("Recovered leads", recovered)
	b.add("Additional wins", wins)
	b.assume(
		"Up to "+pct(HomeServicesSetLift)+" set-rate lift from instant response",
		pct(HomeServicesLeadRecov)+" missed-lead recovery via follow-ups",
	)
	return b.build(hours, savings, revenue)
}

type legalCalculator struct{}

func (legalCalculator) Industry() Industry { return Legal }

func (legalCalculator) Compute(v Values) Impact {
	b, hours, savings := startBuilder(v, laborInputs{
		weekly:  []string{"weeklyDocHrs"},
		monthly: []string{"monthlyClientHrs"},
	})

	inquiries := v.NonNegative("inquiries")
	base := v.Rate("consultSet")
	show := v.Rate("consultShow")
	open := v.Rate("matterOpen")

	improved := improvedRate(base, conversionLift(v.NonNegative("responseMins"), LegalSetLift))
	added := inquiries * (improved - base)
	recovered := inquiries * base * (1 - show) * LegalNoShowRecov
	matters := (added + recovered) * show * open
	revenue := matters * v.NonNegative("avgRetainer")

	b.add("Added consultations", added)
	b.add("Recovered no-shows", recovered)
	b.add("Matters opened", matters)
	b.assume(
		"Up to "+pct(LegalSetLift)+" consult set-rate lift from faster intake",
		pct(LegalNoShowRecov)+" no-show recovery via reminders",
	)
	return b.build(hours, savings, revenue)
}

type agencyCalculator struct{}

func (agencyCalculator) Industry() Industry { return Agency }

func (agencyCalculator) Compute(v Values) Impact {
	b, hours, savings := startBuilder(v, laborInputs{
		weekly:  []string{"weeklyProposalHrs"},
		monthly: []string{"monthlyClientHrs"},
	})

	inbound := v.NonNegative("qualifiedInbound")
	base := v.Rate("meetingRate")
	show := v.Rate("meetingShow")
	win := v.Rate("winRate")

	improved := improvedRate(base, conversionLift(v.NonNegative("responseMins"), AgencyMeetingLift))
	added := inbound * (improved - base)
	recovered := inbound * (1 - base) * AgencyNotSetRecov
	if base == 0 {
		recovered = 0
	}
	wins := (added + recovered) * show * win
	revenue := wins * v.NonNegative("avgDeal")

	b.add("Added meetings", added)
	b.add("Recovered not-set", recovered)
	b.add("Additional wins", wins)
	b.assume(
		"Up to "+pct(AgencyMeetingLift)+" meeting lift from instant response",
		pct(AgencyNotSetRecov)+" recovered not-set via automation",
	)
	return b.build(hours, savings, revenue)
}

type backOfficeCalculator struct{}

func (backOfficeCalculator) Industry() Industry { return BackOfficeOps }

// Compute has no revenue component; avoided error cost counts as savings.
func (backOfficeCalculator) Compute(v Values) Impact {
	b, hours, savings := startBuilder(v, laborInputs{
		weekly: []string{"weeklyQAHrs", "weeklyReportingHrs"},
	})

	items := v.NonNegative("items")
	avoided := items * v.Rate("errorRate") * BackOfficeErrorReduced
	errorSavings := avoided * v.NonNegative("costPerError")

	b.add("Items / month", items)
	b.add("Errors avoided", avoided)
	b.assume(pct(BackOfficeErrorReduced) + " error reduction from automation")
	return b.build(hours, savings+errorSavings, 0)
}
