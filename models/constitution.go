// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Constitution is the governing document of a pool, composed of ordered clauses.
type Constitution struct {
	ID           string               `json:"id"`
	PoolID       string               `json:"pool_id"`
	Version      string               `json:"version"`
	TemplateName string               `json:"template_name"`
	Content      ConstitutionContent  `json:"content"`
	Clauses      []ConstitutionClause `json:"clauses"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	IsActive     bool                 `json:"is_active"`
}

// TableName returns the name of the backend collection that stores constitutions.
func (c Constitution) TableName() string {
	return "constitutions"
}

// ConstitutionContent holds the structured answers a constitution template is
// rendered from.
type ConstitutionContent struct {
	PoolName              string          `json:"pool_name"`
	Purpose               string          `json:"purpose"`
	PoolType              PoolType        `json:"pool_type"`
	ContributionAmount    string          `json:"contribution_amount"`
	ContributionSchedule  string          `json:"contribution_schedule"`
	LatePaymentPolicy     string          `json:"late_payment_policy"`
	DisputeResolution     string          `json:"dispute_resolution"`
	VotingThreshold       VotingThreshold `json:"voting_threshold"`
	PopiaConsent          bool            `json:"popia_consent"`
	AuthorizedSignatories string          `json:"authorized_signatories"`
}

// ConstitutionClause is one numbered clause of a constitution.
type ConstitutionClause struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Order    int    `json:"order"`
	IsCustom bool   `json:"is_custom"`
}

// MemberSignature records a member accepting a constitution.
type MemberSignature struct {
	ID             string    `json:"id"`
	PoolID         string    `json:"pool_id"`
	UserID         string    `json:"user_id"`
	ConstitutionID string    `json:"constitution_id"`
	FullLegalName  string    `json:"full_legal_name"`
	IPAddress      *string   `json:"ip_address,omitempty"`
	SignedAt       time.Time `json:"signed_at"`
	IsActive       bool      `json:"is_active"`
}

// TableName returns the name of the backend collection that stores signatures.
func (s MemberSignature) TableName() string {
	return "member_signatures"
}
