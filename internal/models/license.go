package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	PlanTrial      = "trial"
	PlanStandard   = "standard"
	PlanEnterprise = "enterprise"

	FeatureExercises = "exercises"
	FeatureAPIAccess = "api_access"
)

// Licensed resources with a count limit.
const (
	ResourceUsers    = "users"
	ResourceAssets   = "assets"
	ResourceRunbooks = "runbooks"
)

// License limits a tenant. A zero limit means unlimited.
type License struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Plan           string    `json:"plan"`
	MaxUsers       int       `json:"max_users"`
	MaxAssets      int       `json:"max_assets"`
	MaxRunbooks    int       `json:"max_runbooks"`
	Features       []string  `json:"features"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type planDefaults struct {
	maxUsers, maxAssets, maxRunbooks int
	features                        []string
	validFor                        time.Duration
}

var plans = map[string]planDefaults{
	PlanTrial:      {maxUsers: 5, maxAssets: 25, maxRunbooks: 5, validFor: 30 * 24 * time.Hour},
	PlanStandard:   {maxUsers: 25, maxAssets: 500, maxRunbooks: 50, features: []string{FeatureExercises}, validFor: 365 * 24 * time.Hour},
	PlanEnterprise: {features: []string{FeatureExercises, FeatureAPIAccess}, validFor: 365 * 24 * time.Hour},
}

// ValidPlan reports whether plan is a known plan name.
func ValidPlan(plan string) bool {
	_, ok := plans[plan]
	return ok
}

// NewLicenseForPlan returns a license populated with the plan defaults, issued at now.
func NewLicenseForPlan(orgID uuid.UUID, plan string, now time.Time) *License {
	d, ok := plans[plan]
	if !ok {
		plan = PlanTrial
		d = plans[PlanTrial]
	}
	return &License{
		OrganizationID: orgID,
		Plan:           plan,
		MaxUsers:       d.maxUsers,
		MaxAssets:      d.maxAssets,
		MaxRunbooks:    d.maxRunbooks,
		Features:       slices.Clone(d.features),
		IssuedAt:       now,
		ExpiresAt:      now.Add(d.validFor),
	}
}

func (l *License) IsExpired(now time.Time) bool {
	return !l.ExpiresAt.IsZero() && !now.Before(l.ExpiresAt)
}

func (l *License) HasFeature(feature string) bool {
	return slices.Contains(l.Features, feature)
}

// Limit returns the configured cap for resource; 0 means unlimited.
func (l *License) Limit(resource string) int {
	switch resource {
	case ResourceUsers:
		return l.MaxUsers
	case ResourceAssets:
		return l.MaxAssets
	case ResourceRunbooks:
		return l.MaxRunbooks
	}
	return 0
}

// Allows reports whether one more resource may be created given the current count.
func (l *License) Allows(resource string, current int) bool {
	limit := l.Limit(resource)
	return limit == 0 || current < limit
}

// LicenseUsage is the license together with current consumption.
type LicenseUsage struct {
	License *License       `json:"license"`
	Usage   map[string]int `json:"usage"`
	Expired bool           `json:"expired"`
}

// LicenseUpdate changes a tenant license; nil fields are untouched.
type LicenseUpdate struct {
	Plan        *string
	MaxUsers    *int
	MaxAssets   *int
	MaxRunbooks *int
	Features    []string
	ExpiresAt   *time.Time
}
