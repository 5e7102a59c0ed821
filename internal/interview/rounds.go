// Package interview implements the mock-interview session engine: a
// fixed four-round flow driven by an external question provider.
//
// Round flow:
//
//	Coding ──► Technical ──► System Design ──► HR ──► Complete
//
// Every round ends exactly one way: a submitted answer, a flag, a skip,
// or a timeout (recorded as a skip). Complete is terminal.
package interview

import "fmt"

// Round is one of the four fixed interview stages.
type Round int

const (
	RoundCoding Round = iota
	RoundTechnical
	RoundSystemDesign
	RoundHR
)

// TotalRounds is the fixed length of every session.
const TotalRounds = 4

var roundLabels = [TotalRounds]string{
	"Online Coding Test",
	"Technical Interviews",
	"System Design Round",
	"HR Round",
}

var roundTips = [TotalRounds]string{
	"Discuss your plan and cover edge cases before coding.",
	"Link concepts, explain trade-offs, and be concise.",
	"Think scale, discuss components, draw your schema.",
	"Use STAR format, reflect honestly and briefly.",
}

// Number is the 1-based round number used in history and provider calls.
func (r Round) Number() int { return int(r) + 1 }

func (r Round) Label() string {
	if r < 0 || r >= TotalRounds {
		return ""
	}
	return roundLabels[r]
}

func (r Round) Tip() string {
	if r < 0 || r >= TotalRounds {
		return ""
	}
	return roundTips[r]
}

// CompanyType selects the interview style the question provider tailors
// questions for.
type CompanyType string

const (
	CompanyProduct CompanyType = "product"
	CompanyService CompanyType = "service"
	CompanyStartup CompanyType = "startup"
)

// ParseCompanyType converts a raw string to a CompanyType, returning an
// error for unknown values.
func ParseCompanyType(s string) (CompanyType, error) {
	ct := CompanyType(s)
	switch ct {
	case CompanyProduct, CompanyService, CompanyStartup:
		return ct, nil
	}
	return "", fmt.Errorf("unknown company type %q", s)
}

func (c CompanyType) Label() string {
	switch c {
	case CompanyProduct:
		return "Product-Based"
	case CompanyService:
		return "Service-Based"
	case CompanyStartup:
		return "Startup"
	default:
		return string(c)
	}
}
