package roi

var defaultValues = map[Industry]Values{
	Healthcare: {
		"inquiries":          150,
		"appointments":       380,
		"staffCount":         4,
		"dailyAdminHrs":      1.2,
		"weeklyBillingHrs":   6,
		"monthlyFollowupHrs": 24,
		"responseMins":       45,
		"bookRate":           60,
		"showRate":           80,
		"acceptRate":         55,
		"avgCase":            1800,
		"hourly":             35,
	},
	HomeServices: {
		"leads":              200,
		"estimates":          110,
		"staffCount":         3,
		"dailyAdminHrs":      1,
		"weeklyCoordHrs":     8,
		"monthlyFollowupHrs": 10,
		"speedToLead":        35,
		"setRate":            45,
		"showRate":           75,
		"closeRate":          35,
		"avgJob":             8500,
		"hourly":             35,
	},
	Legal: {
		"inquiries":        120,
		"consultations":    60,
		"staffCount":       3,
		"dailyAdminHrs":    1,
		"weeklyDocHrs":     10,
		"monthlyClientHrs": 12,
		"responseMins":     60,
		"consultSet":       50,
		"consultShow":      85,
		"matterOpen":       55,
		"avgRetainer":      4500,
		"hourly":           75,
	},
	Agency: {
		"qualifiedInbound":  180,
		"meetings":          80,
		"staffCount":        3,
		"dailyAdminHrs":     0.8,
		"weeklyProposalHrs": 6,
		"monthlyClientHrs":  10,
		"responseMins":      90,
		"meetingRate":       45,
		"meetingShow":       80,
		"winRate":           25,
		"avgDeal":           6000,
		"hourly":            50,
	},
	BackOfficeOps: {
		"items":              8000,
		"staffCount":         6,
		"dailyAdminHrs":      1,
		"weeklyQAHrs":        6,
		"weeklyReportingHrs": 4,
		"errorRate":          4,
		"costPerError":       65,
		"hourly":             40,
	},
}

// Defaults returns a fresh copy of the industry's preset input values.
func Defaults(industry Industry) Values {
	return defaultValues[industry].Clone()
}
