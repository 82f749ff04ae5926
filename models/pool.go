// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Pool is a community savings group with a contribution schedule and a
// rotation order.
type Pool struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Description          *string          `json:"description,omitempty"`
	Type                 PoolType         `json:"type"`
	CreatorID            string           `json:"creator_id"`
	ConstitutionID       *string          `json:"constitution_id,omitempty"`
	ContributionAmount   float64          `json:"contribution_amount"`
	ContributionSchedule string           `json:"contribution_schedule"`
	NextDueDate          time.Time        `json:"next_due_date"`
	RotationPosition     int              `json:"rotation_position"`
	TotalMembers         int              `json:"total_members"`
	MaxMembers           *int             `json:"max_members,omitempty"`
	Status               PoolStatus       `json:"status"`
	HealthStatus         PoolHealthStatus `json:"health_status"`
	CurrentCycle         int              `json:"current_cycle"`
	TotalPoolValue       float64          `json:"total_pool_value"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	StartedAt            *time.Time       `json:"started_at,omitempty"`
	CompletedAt          *time.Time       `json:"completed_at,omitempty"`
	Settings             PoolSettings     `json:"settings"`
	Metadata             map[string]any   `json:"metadata,omitempty"`
}

// TableName returns the name of the backend collection that stores pools.
func (p Pool) TableName() string {
	return "pools"
}

// PoolSettings are the governance knobs of a pool.
type PoolSettings struct {
	LatePaymentGraceDays    int                     `json:"late_payment_grace_days"`
	LatePaymentPenaltyRate  float64                 `json:"late_payment_penalty_rate"`
	MinimumTrustScore       *int                    `json:"minimum_trust_score,omitempty"`
	AllowEarlyExit          bool                    `json:"allow_early_exit"`
	RequireUnanimousVotes   bool                    `json:"require_unanimous_votes"`
	AutoRotate              bool                    `json:"auto_rotate"`
	NotificationPreferences NotificationPreferences `json:"notification_preferences"`
}

// NotificationPreferences selects the channels a pool notifies members on.
type NotificationPreferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	InApp bool `json:"in_app"`
}

// DefaultPoolSettings returns the settings a pool gets when none are given.
func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		LatePaymentGraceDays:    3,
		LatePaymentPenaltyRate:  10,
		AllowEarlyExit:          false,
		RequireUnanimousVotes:   false,
		AutoRotate:              true,
		NotificationPreferences: DefaultNotificationPreferences(),
	}
}

// DefaultNotificationPreferences enables e-mail and in-app notifications.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, SMS: false, InApp: true}
}

// PoolMember is the membership of one user in one pool.
type PoolMember struct {
	ID                  string        `json:"id"`
	PoolID              string        `json:"pool_id"`
	UserID              string        `json:"user_id"`
	Role                MemberRole    `json:"role"`
	Status              MemberStatus  `json:"status"`
	Position            int           `json:"position"`
	Tier                MemberTier    `json:"tier"`
	TotalContributed    float64       `json:"total_contributed"`
	PendingContribution float64       `json:"pending_contribution"`
	PenaltiesIncurred   float64       `json:"penalties_incurred"`
	PaymentStatus       PaymentStatus `json:"payment_status"`
	JoinedAt            time.Time     `json:"joined_at"`
	LastPaymentAt       *time.Time    `json:"last_payment_at,omitempty"`
	NextPayoutDate      *time.Time    `json:"next_payout_date,omitempty"`
	ConstitutionSigned  bool          `json:"constitution_signed"`
	SignatureDate       *time.Time    `json:"signature_date,omitempty"`
}

// TableName returns the name of the backend collection that stores members.
func (m PoolMember) TableName() string {
	return "pool_members"
}

// Transaction is a single money movement inside a pool.
type Transaction struct {
	ID          string            `json:"id"`
	PoolID      string            `json:"pool_id"`
	UserID      string            `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Status      TransactionStatus `json:"status"`
	Description *string           `json:"description,omitempty"`
	Reference   *string           `json:"reference,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// TableName returns the name of the backend collection that stores transactions.
func (t Transaction) TableName() string {
	return "transactions"
}
