// Package classify derives coarse directory attributes (industry domain,
// representative services, popularity tier) from raw repository metadata.
// Every function here is total and deterministic.
package classify

import "strings"

// Domain labels. DomainUnknown is reserved for a missing language;
// DomainData doubles as the catch-all for unrecognized languages.
const (
	DomainWeb       = "Web Development"
	DomainML        = "AI/Machine Learning"
	DomainData      = "Data & Analytics"
	DomainDevOps    = "DevOps & Cloud"
	DomainMobile    = "Mobile App Development"
	DomainMarketing = "Marketing & SEO"
	DomainDesign    = "UI/UX Design"
	DomainOther     = "Other"
	DomainUnknown   = "Unknown"
)

// Domains lists the selectable domain labels, in display order.
var Domains = []string{
	DomainWeb,
	DomainML,
	DomainData,
	DomainDevOps,
	DomainMobile,
	DomainMarketing,
	DomainDesign,
}

var webLanguages = map[string]bool{
	"typescript": true,
	"javascript": true,
	"html":       true,
	"css":        true,
	"php":        true,
	"ruby":       true,
}

var mlLanguages = map[string]bool{
	"python": true,
	"r":      true,
}

var infraLanguages = map[string]bool{
	"java":  true,
	"scala": true,
	"c++":   true,
	"go":    true,
	"c#":    true,
}

// Domain maps a repository's primary language to an industry domain.
// An empty language yields DomainUnknown; a language outside the known
// sets falls through to DomainData. The sets are checked in fixed order
// (web, then ML, then infra) so the mapping is stable.
func Domain(language string) string {
	if language == "" {
		return DomainUnknown
	}
	lang := strings.ToLower(language)
	switch {
	case webLanguages[lang]:
		return DomainWeb
	case mlLanguages[lang]:
		return DomainML
	case infraLanguages[lang]:
		return DomainDevOps
	default:
		return DomainData
	}
}

var domainServices = map[string][]string{
	DomainWeb:       {"Frontend Engineering", "E-commerce Solutions", "CMS Integration", "API Development"},
	DomainML:        {"LLM Integration", "Predictive Modeling", "Computer Vision", "Data Science"},
	DomainData:      {"BI Dashboarding", "Data Warehousing", "ETL Pipelines", "PostgreSQL Optimization"},
	DomainDevOps:    {"Cloud Migration (AWS/Azure)", "Kubernetes Management", "CI/CD Automation", "Infrastructure as Code"},
	DomainMobile:    {"iOS/Android Native", "Cross-Platform Dev", "App Store Optimization", "QA & Testing"},
	DomainMarketing: {"SEO Optimization", "Content Strategy", "Performance Marketing", "Conversion Rate Optimization"},
	DomainDesign:    {"Figma Prototyping", "User Research", "Design System Dev", "Interaction Design"},
	DomainOther:     {"General Consulting", "Security Audits", "Compliance"},
}

// ServicesFor returns up to three representative service names for the
// given domain, in table order. Unknown domains get the "Other" entry.
// The returned slice is a copy; callers may keep it.
func ServicesFor(domain string) []string {
	services, ok := domainServices[domain]
	if !ok {
		services = domainServices[DomainOther]
	}
	if len(services) > 3 {
		services = services[:3]
	}
	out := make([]string, len(services))
	copy(out, services)
	return out
}
