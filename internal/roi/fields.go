package roi

// FieldKind is the value kind of an input, used for display and parsing.
type FieldKind string

const (
	KindNumber   FieldKind = "number"
	KindCurrency FieldKind = "currency"
	KindPercent  FieldKind = "percent"
	KindTime     FieldKind = "time"
)

// FieldGroup is a layout grouping only; it never affects the math.
type FieldGroup string

const (
	GroupVolume      FieldGroup = "Volume"
	GroupTasks       FieldGroup = "Tasks"
	GroupPerformance FieldGroup = "Performance"
	GroupValue       FieldGroup = "Value"
	GroupCosts       FieldGroup = "Costs"
)

// Groups returns the layout groups in display order.
func Groups() []FieldGroup {
	return []FieldGroup{GroupVolume, GroupTasks, GroupPerformance, GroupValue, GroupCosts}
}

// FieldSpec describes one configurable input of an industry.
type FieldSpec struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Group  FieldGroup `json:"group"`
	Kind   FieldKind  `json:"type"`
	Min    *float64   `json:"min,omitempty"`
	Max    *float64   `json:"max,omitempty"`
	Step   *float64   `json:"step,omitempty"`
	Suffix string     `json:"suffix,omitempty"`
	Hint   string     `json:"hint,omitempty"`
}

// GroupedFields is a group with its fields, as rendered by the calculator form.
type GroupedFields struct {
	Group  FieldGroup  `json:"group"`
	Fields []FieldSpec `json:"fields"`
}

func f(v float64) *float64 { return &v }

func count(id, label string, group FieldGroup, max float64) FieldSpec {
	return FieldSpec{ID: id, Label: label, Group: group, Kind: KindNumber, Min: f(0), Max: f(max), Step: f(1)}
}

func staff(label string) FieldSpec {
	return count("staffCount", label, GroupTasks, 500)
}

func dailyHours(hint string) FieldSpec {
	return FieldSpec{ID: "dailyAdminHrs", Label: "Daily Admin Hours per Staff", Group: GroupTasks, Kind: KindTime,
		Min: f(0), Max: f(24), Step: f(0.25), Suffix: "hrs/day/staff", Hint: hint}
}

func weeklyHours(id, label, hint string) FieldSpec {
	return FieldSpec{ID: id, Label: label, Group: GroupTasks, Kind: KindTime,
		Min: f(0), Max: f(60), Step: f(0.25), Suffix: "hrs/wk", Hint: hint}
}

func monthlyHours(id, label, hint string) FieldSpec {
	return FieldSpec{ID: id, Label: label, Group: GroupTasks, Kind: KindTime,
		Min: f(0), Max: f(400), Step: f(0.25), Suffix: "hrs/mo", Hint: hint}
}

func minutes(id, label string) FieldSpec {
	return FieldSpec{ID: id, Label: label, Group: GroupPerformance, Kind: KindNumber, Min: f(0), Max: f(480), Step: f(1)}
}

func rate(id, label string) FieldSpec {
	return FieldSpec{ID: id, Label: label, Group: GroupPerformance, Kind: KindPercent, Min: f(1), Max: f(100), Step: f(1), Suffix: "%"}
}

func money(id, label string, group FieldGroup, max, step float64, hint string) FieldSpec {
	return FieldSpec{ID: id, Label: label, Group: group, Kind: KindCurrency, Min: f(0), Max: f(max), Step: f(step), Hint: hint}
}

var fieldSpecs = map[Industry][]FieldSpec{
	Healthcare: {
		count("inquiries", "Monthly Inquiries", GroupVolume, 100000),
		count("appointments", "Monthly Appointments", GroupVolume, 100000),
		staff("Admin / Front Desk Staff"),
		dailyHours("Confirmations, reminders, scheduling, insurance, billing"),
		weeklyHours("weeklyBillingHrs", "Weekly Billing / Collections", "Insurance claims, payment follow-ups"),
		monthlyHours("monthlyFollowupHrs", "Monthly Follow-up Hours", "Treatment reminders, annual checkups, post-care calls"),
		minutes("responseMins", "Response Time (minutes)"),
		rate("bookRate", "Booking Rate"),
		rate("showRate", "Show Rate"),
		rate("acceptRate", "Treatment Acceptance"),
		money("avgCase", "Average Case Value", GroupValue, 1000000, 50, ""),
		money("hourly", "Fully-Loaded Hourly (Admin Blend)", GroupCosts, 500, 1, "Wages + benefits + taxes"),
	},
	HomeServices: {
		count("leads", "Monthly Leads", GroupVolume, 100000),
		count("estimates", "Monthly Estimates / Consults", GroupVolume, 100000),
		staff("Office / Admin Staff"),
		dailyHours("Scheduling, customer updates, permit tracking"),
		weeklyHours("weeklyCoordHrs", "Weekly Job Coordination", "Materials, crew scheduling, status updates"),
		monthlyHours("monthlyFollowupHrs", "Monthly Customer Follow-up", "Maintenance reminders, seasonal outreach, warranties"),
		minutes("speedToLead", "Speed-to-Lead (minutes)"),
		rate("setRate", "Consultation Set Rate"),
		rate("showRate", "Consultation Show Rate"),
		rate("closeRate", "Close Rate"),
		money("avgJob", "Average Job Value", GroupValue, 1000000, 100, ""),
		money("hourly", "Ops/Admin Hourly (Fully-Loaded)", GroupCosts, 500, 1, ""),
	},
	Legal: {
		count("inquiries", "Monthly Inquiries", GroupVolume, 100000),
		count("consultations", "Monthly Consultations", GroupVolume, 100000),
		staff("Paralegal / Admin Staff"),
		dailyHours("Document prep, court scheduling, client updates"),
		weeklyHours("weeklyDocHrs", "Weekly Document Processing", "Filing, research, forms"),
		monthlyHours("monthlyClientHrs", "Monthly Client Communications", "Status updates, billing calls, case explanations"),
		minutes("responseMins", "Response Time (minutes)"),
		rate("consultSet", "Consultation Set Rate"),
		rate("consultShow", "Consultation Show Rate"),
		rate("matterOpen", "Matter Open Rate (from consults)"),
		money("avgRetainer", "Average Case / Initial Retainer", GroupValue, 1000000, 100, ""),
		money("hourly", "Fully-Loaded Hourly (Paralegal Blend)", GroupCosts, 500, 1, ""),
	},
	Agency: {
		count("qualifiedInbound", "Qualified Inbound / Month", GroupVolume, 100000),
		count("meetings", "Monthly Discovery Calls", GroupVolume, 100000),
		staff("BDR / Admin Staff"),
		dailyHours("CRM updates, onboarding, comms"),
		weeklyHours("weeklyProposalHrs", "Weekly Proposal / SOW Creation", "Custom proposals, contracts"),
		monthlyHours("monthlyClientHrs", "Monthly Pipeline Follow-up", "Nurturing, check-ins, upsell"),
		minutes("responseMins", "Response Time (minutes)"),
		rate("meetingRate", "Meeting Set Rate"),
		rate("meetingShow", "Meeting Show Rate"),
		rate("winRate", "Win Rate"),
		money("avgDeal", "Average Deal Value (first 90 days)", GroupValue, 1000000, 100, ""),
		money("hourly", "Ops/Admin Hourly (Fully-Loaded)", GroupCosts, 500, 1, ""),
	},
	BackOfficeOps: {
		count("items", "Monthly Items / Tasks", GroupVolume, 1000000),
		staff("Processing Staff"),
		dailyHours("Data entry, validation, corrections"),
		weeklyHours("weeklyQAHrs", "Weekly QA / Review", "Quality checks, audits"),
		weeklyHours("weeklyReportingHrs", "Weekly Reporting", "Dashboards, client reports"),
		{ID: "errorRate", Label: "Current Error Rate", Group: GroupPerformance, Kind: KindPercent,
			Min: f(0), Max: f(100), Step: f(0.1), Suffix: "%"},
		money("costPerError", "Cost per Error", GroupValue, 100000, 10, ""),
		money("hourly", "Fully-Loaded Hourly", GroupCosts, 500, 1, ""),
	},
}

// Fields returns a copy of the industry's field specs in display order.
func Fields(industry Industry) []FieldSpec {
	specs := fieldSpecs[industry]
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// FieldsByGroup buckets the industry's fields by layout group, skipping
// empty groups.
func FieldsByGroup(industry Industry) []GroupedFields {
	var out []GroupedFields
	for _, group := range Groups() {
		var fields []FieldSpec
		for _, spec := range fieldSpecs[industry] {
			if spec.Group == group {
				fields = append(fields, spec)
			}
		}
		if len(fields) > 0 {
			out = append(out, GroupedFields{Group: group, Fields: fields})
		}
	}
	return out
}

// HasField reports whether id is part of the industry's schema.
func HasField(industry Industry, id string) bool {
	for _, spec := range fieldSpecs[industry] {
		if spec.ID == id {
			return true
		}
	}
	return false
}
