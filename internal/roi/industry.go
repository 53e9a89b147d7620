// Package roi estimates the monthly and annual impact of automating a
// business's admin work and lead response, per industry.
package roi

import (
	"fmt"
	"strings"
)

// Industry selects the field schema, defaults and calculation branch.
type Industry string

const (
	Healthcare    Industry = "healthcare"
	HomeServices  Industry = "home_services"
	Legal         Industry = "legal"
	Agency        Industry = "agency"
	BackOfficeOps Industry = "back_office_ops"
)

var industryLabels = map[Industry]string{
	Healthcare:    "Healthcare / Med Spa / Dental",
	HomeServices:  "High-Ticket Home Services",
	Legal:         "Legal Services",
	Agency:        "Agency / B2B Services / Consulting",
	BackOfficeOps: "Back-Office / Operations",
}

// Industries returns every supported industry in display order.
func Industries() []Industry {
	return []Industry{Healthcare, HomeServices, Legal, Agency, BackOfficeOps}
}

// Label returns the display label, or the raw tag for unknown industries.
func (i Industry) Label() string {
	if label, ok := industryLabels[i]; ok {
		return label
	}
	return string(i)
}

func (i Industry) Valid() bool {
	_, ok := industryLabels[i]
	return ok
}

// ParseIndustry accepts the tag in any case, with dashes or underscores.
func ParseIndustry(s string) (Industry, error) {
	tag := Industry(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !tag.Valid() {
		return "", fmt.Errorf("unknown industry %q", s)
	}
	return tag, nil
}
