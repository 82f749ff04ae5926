// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// PoolType classifies a pool by its contribution rhythm or purpose.
type PoolType string

const (
	PoolTypeDaily       PoolType = "daily"
	PoolTypeWeekly      PoolType = "weekly"
	PoolTypeFortnightly PoolType = "fortnightly"
	PoolTypeMonthly     PoolType = "monthly"
	PoolTypeStokvel     PoolType = "stokvel"
	PoolTypeSavings     PoolType = "savings"
	PoolTypeInvestment  PoolType = "investment"
	PoolTypeRotating    PoolType = "rotating"
)

// PoolTypes lists every accepted [PoolType] in declaration order.
var PoolTypes = []PoolType{
	PoolTypeDaily,
	PoolTypeWeekly,
	PoolTypeFortnightly,
	PoolTypeMonthly,
	PoolTypeStokvel,
	PoolTypeSavings,
	PoolTypeInvestment,
	PoolTypeRotating,
}

// PoolStatus is the lifecycle status of a pool.
type PoolStatus string

const (
	PoolStatusDraft     PoolStatus = "draft"
	PoolStatusActive    PoolStatus = "active"
	PoolStatusPaused    PoolStatus = "paused"
	PoolStatusCompleted PoolStatus = "completed"
	PoolStatusCancelled PoolStatus = "cancelled"
)

// PoolHealthStatus is the coarse health indicator shown on pool cards.
type PoolHealthStatus string

const (
	PoolHealthHealthy  PoolHealthStatus = "healthy"
	PoolHealthWarning  PoolHealthStatus = "warning"
	PoolHealthCritical PoolHealthStatus = "critical"
)

// MemberRole is the permission level of a pool member.
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
	MemberRoleViewer MemberRole = "viewer"
)

// MemberStatus is the standing of a member inside a pool.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusPending   MemberStatus = "pending"
	MemberStatusSuspended MemberStatus = "suspended"
	MemberStatusDefaulted MemberStatus = "defaulted"
)

// MemberTier is the loyalty tier of a member.
type MemberTier string

const (
	MemberTierBronze   MemberTier = "bronze"
	MemberTierSilver   MemberTier = "silver"
	MemberTierGold     MemberTier = "gold"
	MemberTierPlatinum MemberTier = "platinum"
)

// PaymentStatus is the state of a member's current contribution.
type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusLate      PaymentStatus = "late"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusDefaulted PaymentStatus = "defaulted"
)

// TransactionType is the kind of money movement recorded for a pool.
type TransactionType string

const (
	TransactionContribution TransactionType = "contribution"
	TransactionPayout       TransactionType = "payout"
	TransactionPenalty      TransactionType = "penalty"
	TransactionRefund       TransactionType = "refund"
	TransactionFee          TransactionType = "fee"
)

// TransactionTypes lists every accepted [TransactionType].
var TransactionTypes = []TransactionType{
	TransactionContribution,
	TransactionPayout,
	TransactionPenalty,
	TransactionRefund,
	TransactionFee,
}

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// ProposalStatus is the lifecycle status of a proposal.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExpired  ProposalStatus = "expired"
)

// ProposalType is the subject area of a proposal.
type ProposalType string

const (
	ProposalConstitutionalChange ProposalType = "constitutional_change"
	ProposalMemberAction         ProposalType = "member_action"
	ProposalPoolSetting          ProposalType = "pool_setting"
	ProposalOther                ProposalType = "other"
)

// ProposalTypes lists every accepted [ProposalType].
var ProposalTypes = []ProposalType{
	ProposalConstitutionalChange,
	ProposalMemberAction,
	ProposalPoolSetting,
	ProposalOther,
}

// VoteChoice is a single member ballot value.
type VoteChoice string

const (
	VoteYes     VoteChoice = "yes"
	VoteNo      VoteChoice = "no"
	VoteAbstain VoteChoice = "abstain"
)

// VoteChoices lists every accepted [VoteChoice].
var VoteChoices = []VoteChoice{VoteYes, VoteNo, VoteAbstain}

// TrustRating is the categorical bucket of a trust score.
type TrustRating string

const (
	TrustExceptional TrustRating = "exceptional"
	TrustGood        TrustRating = "good"
	TrustFair        TrustRating = "fair"
	TrustPoor        TrustRating = "poor"
)

// VotingThreshold is the majority a constitution requires for decisions.
type VotingThreshold string

const (
	VotingSimpleMajority VotingThreshold = "simple_majority"
	VotingTwoThirds      VotingThreshold = "two_thirds"
	VotingUnanimous      VotingThreshold = "unanimous"
)

// VotingThresholds lists every accepted [VotingThreshold].
var VotingThresholds = []VotingThreshold{VotingSimpleMajority, VotingTwoThirds, VotingUnanimous}
