// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DefaultCurrency is the ISO 4217 code used when a transaction names none.
const DefaultCurrency = "ZAR"

// DefaultConstitutionVersion is the version stamped on a freshly created constitution.
const DefaultConstitutionVersion = "1.0"

// CreatePoolInput is the user-supplied shape of a new pool. Optional settings
// are filled with their documented defaults by [CreatePoolInput.ApplyDefaults].
type CreatePoolInput struct {
	Name                 string             `json:"name"`
	Description          *string            `json:"description,omitempty"`
	Type                 PoolType           `json:"type"`
	ContributionAmount   float64            `json:"contribution_amount"`
	ContributionSchedule string             `json:"contribution_schedule"`
	MaxMembers           *int               `json:"max_members,omitempty"`
	Settings             *PoolSettingsInput `json:"settings,omitempty"`
}

// ApplyDefaults fills every omitted setting with its default value.
func (in *CreatePoolInput) ApplyDefaults() {
	if in.Settings == nil {
		in.Settings = &PoolSettingsInput{}
	}
	in.Settings.ApplyDefaults()
}

// Row converts the input into the pools row created by creatorID.
// ApplyDefaults must have been called first.
func (in CreatePoolInput) Row(creatorID string) NewPool {
	settings := DefaultPoolSettings()
	if in.Settings != nil {
		settings = in.Settings.Resolve()
	}

	return NewPool{
		Name:                 in.Name,
		Description:          in.Description,
		Type:                 in.Type,
		CreatorID:            creatorID,
		ContributionAmount:   in.ContributionAmount,
		ContributionSchedule: in.ContributionSchedule,
		MaxMembers:           in.MaxMembers,
		Status:               PoolStatusDraft,
		HealthStatus:         PoolHealthHealthy,
		Settings:             settings,
	}
}

// PoolSettingsInput is the optional-field form of [PoolSettings].
type PoolSettingsInput struct {
	LatePaymentGraceDays    *int                          `json:"late_payment_grace_days,omitempty"`
	LatePaymentPenaltyRate  *float64                      `json:"late_payment_penalty_rate,omitempty"`
	MinimumTrustScore       *int                          `json:"minimum_trust_score,omitempty"`
	AllowEarlyExit          *bool                         `json:"allow_early_exit,omitempty"`
	RequireUnanimousVotes   *bool                         `json:"require_unanimous_votes,omitempty"`
	AutoRotate              *bool                         `json:"auto_rotate,omitempty"`
	NotificationPreferences *NotificationPreferencesInput `json:"notification_preferences,omitempty"`
}

// ApplyDefaults fills the omitted fields of s. MinimumTrustScore has no default.
func (s *PoolSettingsInput) ApplyDefaults() {
	def := DefaultPoolSettings()

	if s.LatePaymentGraceDays == nil {
		s.LatePaymentGraceDays = &def.LatePaymentGraceDays
	}
	if s.LatePaymentPenaltyRate == nil {
		s.LatePaymentPenaltyRate = &def.LatePaymentPenaltyRate
	}
	if s.AllowEarlyExit == nil {
		s.AllowEarlyExit = &def.AllowEarlyExit
	}
	if s.RequireUnanimousVotes == nil {
		s.RequireUnanimousVotes = &def.RequireUnanimousVotes
	}
	if s.AutoRotate == nil {
		s.AutoRotate = &def.AutoRotate
	}
	if s.NotificationPreferences == nil {
		s.NotificationPreferences = &NotificationPreferencesInput{}
	}
	s.NotificationPreferences.ApplyDefaults()
}

// Resolve returns the concrete settings, using defaults for any nil field.
func (s PoolSettingsInput) Resolve() PoolSettings {
	s.ApplyDefaults()
	return PoolSettings{
		LatePaymentGraceDays:    *s.LatePaymentGraceDays,
		LatePaymentPenaltyRate:  *s.LatePaymentPenaltyRate,
		MinimumTrustScore:       s.MinimumTrustScore,
		AllowEarlyExit:          *s.AllowEarlyExit,
		RequireUnanimousVotes:   *s.RequireUnanimousVotes,
		AutoRotate:              *s.AutoRotate,
		NotificationPreferences: s.NotificationPreferences.Resolve(),
	}
}

// NotificationPreferencesInput is the optional-field form of [NotificationPreferences].
type NotificationPreferencesInput struct {
	Email *bool `json:"email,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
	InApp *bool `json:"in_app,omitempty"`
}

// ApplyDefaults fills the omitted channels.
func (n *NotificationPreferencesInput) ApplyDefaults() {
	def := DefaultNotificationPreferences()
	if n.Email == nil {
		n.Email = &def.Email
	}
	if n.SMS == nil {
		n.SMS = &def.SMS
	}
	if n.InApp == nil {
		n.InApp = &def.InApp
	}
}

// Resolve returns the concrete preferences, using defaults for any nil field.
func (n NotificationPreferencesInput) Resolve() NotificationPreferences {
	n.ApplyDefaults()
	return NotificationPreferences{Email: *n.Email, SMS: *n.SMS, InApp: *n.InApp}
}

// UpdatePoolInput is a partial pool update. Omitted fields stay untouched;
// a present settings object still gets its inner defaults.
type UpdatePoolInput struct {
	Name                 *string            `json:"name,omitempty"`
	Description          *string            `json:"description,omitempty"`
	Type                 *PoolType          `json:"type,omitempty"`
	ContributionAmount   *float64           `json:"contribution_amount,omitempty"`
	ContributionSchedule *string            `json:"contribution_schedule,omitempty"`
	MaxMembers           *int               `json:"max_members,omitempty"`
	Settings             *PoolSettingsInput `json:"settings,omitempty"`
}

// ApplyDefaults fills inner settings defaults when settings are present.
func (in *UpdatePoolInput) ApplyDefaults() {
	if in.Settings != nil {
		in.Settings.ApplyDefaults()
	}
}

// IsEmpty reports whether the update carries no field at all.
func (in UpdatePoolInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Type == nil &&
		in.ContributionAmount == nil && in.ContributionSchedule == nil &&
		in.MaxMembers == nil && in.Settings == nil
}

// NewPool is the pools row written on creation.
type NewPool struct {
	Name                 string           `json:"name"`
	Description          *string          `json:"description,omitempty"`
	Type                 PoolType         `json:"type"`
	CreatorID            string           `json:"creator_id"`
	ContributionAmount   float64          `json:"contribution_amount"`
	ContributionSchedule string           `json:"contribution_schedule"`
	MaxMembers           *int             `json:"max_members,omitempty"`
	Status               PoolStatus       `json:"status"`
	HealthStatus         PoolHealthStatus `json:"health_status"`
	Settings             PoolSettings     `json:"settings"`
}

// CreateConstitutionInput is the user-supplied shape of a new constitution.
type CreateConstitutionInput struct {
	PoolID       string                   `json:"pool_id"`
	TemplateName string                   `json:"template_name"`
	Content      ConstitutionContentInput `json:"content"`
	Clauses      []ConstitutionClause     `json:"clauses"`
}

// ConstitutionContentInput mirrors [ConstitutionContent]; PopiaConsent is a
// pointer so that an omitted consent can be told apart from a refused one.
type ConstitutionContentInput struct {
	PoolName              string          `json:"pool_name"`
	Purpose               string          `json:"purpose"`
	PoolType              PoolType        `json:"pool_type"`
	ContributionAmount    string          `json:"contribution_amount"`
	ContributionSchedule  string          `json:"contribution_schedule"`
	LatePaymentPolicy     string          `json:"late_payment_policy"`
	DisputeResolution     string          `json:"dispute_resolution"`
	VotingThreshold       VotingThreshold `json:"voting_threshold"`
	PopiaConsent          *bool           `json:"popia_consent"`
	AuthorizedSignatories string          `json:"authorized_signatories"`
}

// Row converts the input into the constitutions row.
func (in CreateConstitutionInput) Row() NewConstitution {
	consent := in.Content.PopiaConsent != nil && *in.Content.PopiaConsent
	clauses := in.Clauses
	if clauses == nil {
		clauses = []ConstitutionClause{}
	}

	return NewConstitution{
		PoolID:       in.PoolID,
		Version:      DefaultConstitutionVersion,
		TemplateName: in.TemplateName,
		Content: ConstitutionContent{
			PoolName:              in.Content.PoolName,
			Purpose:               in.Content.Purpose,
			PoolType:              in.Content.PoolType,
			ContributionAmount:    in.Content.ContributionAmount,
			ContributionSchedule:  in.Content.ContributionSchedule,
			LatePaymentPolicy:     in.Content.LatePaymentPolicy,
			DisputeResolution:     in.Content.DisputeResolution,
			VotingThreshold:       in.Content.VotingThreshold,
			PopiaConsent:          consent,
			AuthorizedSignatories: in.Content.AuthorizedSignatories,
		},
		Clauses:  clauses,
		IsActive: true,
	}
}

// NewConstitution is the constitutions row written on creation.
type NewConstitution struct {
	PoolID       string               `json:"pool_id"`
	Version      string               `json:"version"`
	TemplateName string               `json:"template_name"`
	Content      ConstitutionContent  `json:"content"`
	Clauses      []ConstitutionClause `json:"clauses"`
	IsActive     bool                 `json:"is_active"`
}

// CreateTransactionInput is the user-supplied shape of a new transaction.
type CreateTransactionInput struct {
	PoolID      string          `json:"pool_id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Description *string         `json:"description,omitempty"`
	Reference   *string         `json:"reference,omitempty"`
}

// ApplyDefaults sets the currency to [DefaultCurrency] when omitted.
func (in *CreateTransactionInput) ApplyDefaults() {
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}
}

// Row converts the input into the pending transactions row of userID.
func (in CreateTransactionInput) Row(userID string) NewTransaction {
	return NewTransaction{
		PoolID:      in.PoolID,
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Status:      TransactionStatusPending,
		Description: in.Description,
		Reference:   in.Reference,
	}
}

// NewTransaction is the transactions row written on creation.
type NewTransaction struct {
	PoolID      string            `json:"pool_id"`
	UserID      string            `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Status      TransactionStatus `json:"status"`
	Description *string           `json:"description,omitempty"`
	Reference   *string           `json:"reference,omitempty"`
}

// CreateProposalInput is the user-supplied shape of a new proposal.
// Deadline is an RFC 3339 timestamp.
type CreateProposalInput struct {
	PoolID      string       `json:"pool_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        ProposalType `json:"type"`
	Deadline    string       `json:"deadline"`
}

// Row converts the input into the active proposals row created by userID.
// The deadline must already be validated.
func (in CreateProposalInput) Row(userID string) (NewProposal, error) {
	deadline, err := time.Parse(time.RFC3339, in.Deadline)
	if err != nil {
		return NewProposal{}, err
	}

	return NewProposal{
		PoolID:      in.PoolID,
		CreatedBy:   userID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Status:      ProposalStatusActive,
		Deadline:    deadline.UTC(),
	}, nil
}

// NewProposal is the proposals row written on creation.
type NewProposal struct {
	PoolID      string         `json:"pool_id"`
	CreatedBy   string         `json:"created_by"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        ProposalType   `json:"type"`
	Status      ProposalStatus `json:"status"`
	Deadline    time.Time      `json:"deadline"`
}

// VoteInput is a member's ballot on a proposal.
type VoteInput struct {
	ProposalID string     `json:"proposal_id"`
	Vote       VoteChoice `json:"vote"`
	Comment    *string    `json:"comment,omitempty"`
}

// Row converts the input into the votes row cast by userID.
func (in VoteInput) Row(userID string) NewVote {
	return NewVote{ProposalID: in.ProposalID, UserID: userID, Vote: in.Vote, Comment: in.Comment}
}

// NewVote is the votes row written when a ballot is cast.
type NewVote struct {
	ProposalID string     `json:"proposal_id"`
	UserID     string     `json:"user_id"`
	Vote       VoteChoice `json:"vote"`
	Comment    *string    `json:"comment,omitempty"`
}

// SignConstitutionInput is a member's acceptance of a pool constitution.
type SignConstitutionInput struct {
	PoolID         string  `json:"pool_id"`
	ConstitutionID string  `json:"constitution_id"`
	FullLegalName  string  `json:"full_legal_name"`
	IPAddress      *string `json:"ip_address,omitempty"`
}

// Row converts the input into the member_signatures row of userID.
func (in SignConstitutionInput) Row(userID string) NewSignature {
	return NewSignature{
		PoolID:         in.PoolID,
		UserID:         userID,
		ConstitutionID: in.ConstitutionID,
		FullLegalName:  in.FullLegalName,
		IPAddress:      in.IPAddress,
		IsActive:       true,
	}
}

// NewSignature is the member_signatures row written on signing.
type NewSignature struct {
	PoolID         string  `json:"pool_id"`
	UserID         string  `json:"user_id"`
	ConstitutionID string  `json:"constitution_id"`
	FullLegalName  string  `json:"full_legal_name"`
	IPAddress      *string `json:"ip_address,omitempty"`
	IsActive       bool    `json:"is_active"`
}

// NewPoolMember is the pool_members row written when a user joins a pool.
type NewPoolMember struct {
	PoolID        string        `json:"pool_id"`
	UserID        string        `json:"user_id"`
	Role          MemberRole    `json:"role"`
	Status        MemberStatus  `json:"status"`
	Position      int           `json:"position"`
	Tier          MemberTier    `json:"tier"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// CreatorMembership is the admin membership a pool creator gets, first in
// the rotation.
func CreatorMembership(poolID, userID string) NewPoolMember {
	return NewPoolMember{
		PoolID:        poolID,
		UserID:        userID,
		Role:          MemberRoleAdmin,
		Status:        MemberStatusActive,
		Position:      1,
		Tier:          MemberTierBronze,
		PaymentStatus: PaymentStatusPending,
	}
}
