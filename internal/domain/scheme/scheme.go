// Package scheme defines government funding schemes and the registry contract
// the scheme matcher reads from. The core treats schemes as read-only.
package scheme

import (
	"context"
	"strings"
)

// Status is the lifecycle state of a scheme.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusClosed   Status = "CLOSED"
)

// VerificationStatus records whether scheme data has been checked against an
// official source.
type VerificationStatus string

const (
	Verified   VerificationStatus = "VERIFIED"
	Pending    VerificationStatus = "PENDING"
	Unverified VerificationStatus = "UNVERIFIED"
)

// GovernmentScheme is a registry entry. Funding limits are in rupees; zero
// means unknown.
type GovernmentScheme struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Code                string             `json:"code"`
	Ministry            string             `json:"ministry"`
	Description         string             `json:"description"`
	Objectives          []string           `json:"objectives,omitempty"`
	MinFunding          float64            `json:"min_funding"`
	MaxFunding          float64            `json:"max_funding"`
	Sectors             []string           `json:"sectors,omitempty"`
	Regions             []string           `json:"regions,omitempty"`
	Keywords            []string           `json:"keywords,omitempty"`
	Status              Status             `json:"status"`
	VerificationStatus  VerificationStatus `json:"verification_status"`
	RequiredDocuments   []string           `json:"required_documents,omitempty"`
	EligibilityCriteria []string           `json:"eligibility_criteria,omitempty"`
	ProcessingTimeDays  int                `json:"processing_time_days"`
}

// IsActive reports whether applications are currently accepted.
func (s *GovernmentScheme) IsActive() bool {
	return Status(strings.ToUpper(string(s.Status))) == StatusActive
}

// IsNational reports whether the scheme applies to every region.
func (s *GovernmentScheme) IsNational() bool {
	if len(s.Regions) == 0 {
		return true
	}
	for _, r := range s.Regions {
		switch strings.ToLower(strings.TrimSpace(r)) {
		case "all", "national", "all india", "pan india":
			return true
		}
	}
	return false
}

// Repository is the scheme registry contract.
type Repository interface {
	ListAll(ctx context.Context) ([]GovernmentScheme, error)
	ListActive(ctx context.Context) ([]GovernmentScheme, error)
	GetByCode(ctx context.Context, code string) (*GovernmentScheme, error)
	Upsert(ctx context.Context, s *GovernmentScheme) error
}

// FilterActive returns the ACTIVE entries of all, preserving order.
func FilterActive(all []GovernmentScheme) []GovernmentScheme {
	out := make([]GovernmentScheme, 0, len(all))
	for _, s := range all {
		if s.IsActive() {
			out = append(out, s)
		}
	}
	return out
}

//Personal.AI order the ending
