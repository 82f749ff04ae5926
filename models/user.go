// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"maps"
	"time"
)

// Neutral trust values assigned to every new member and used whenever a
// profile has no trust_metrics row yet.
const (
	DefaultTrustScoreValue = 500
	DefaultTrustRating     = TrustFair
)

// User is the application-level profile of a member. It is keyed 1:1 to a
// [SessionIdentity] by ID and lives in the users table.
type User struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	AvatarURL     *string        `json:"avatar_url,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	WalletBalance float64        `json:"wallet_balance"`
	TotalSavings  float64        `json:"total_savings"`
	TrustScore    TrustScore     `json:"trust_score"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	LastLoginAt   *time.Time     `json:"last_login_at,omitempty"`
	IsActive      bool           `json:"is_active"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// TableName returns the name of the backend collection that stores users.
func (u User) TableName() string {
	return "users"
}

// Clone returns a copy of u that shares no pointer or map with it.
func (u User) Clone() User {
	if u.AvatarURL != nil {
		avatar := *u.AvatarURL
		u.AvatarURL = &avatar
	}
	if u.Phone != nil {
		phone := *u.Phone
		u.Phone = &phone
	}
	if u.LastLoginAt != nil {
		at := *u.LastLoginAt
		u.LastLoginAt = &at
	}
	u.Metadata = maps.Clone(u.Metadata)
	return u
}

// TrustScore is the reputation sub-record embedded in a [User].
type TrustScore struct {
	// Score ranges from 0 to 1000.
	Score     int          `json:"score"`
	Rating    TrustRating  `json:"rating"`
	Metrics   TrustMetrics `json:"metrics"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TrustMetrics are the payment and activity figures a trust score is derived from.
type TrustMetrics struct {
	OnTimePaymentRate float64 `json:"on_time_payment_rate"`
	YearsActive       float64 `json:"years_active"`
	PoolsCompleted    int     `json:"pools_completed"`
	DefaultsCount     int     `json:"defaults_count"`
}

// DefaultTrustScore returns the neutral trust score stamped with now.
func DefaultTrustScore(now time.Time) TrustScore {
	return TrustScore{
		Score:     DefaultTrustScoreValue,
		Rating:    DefaultTrustRating,
		Metrics:   TrustMetrics{},
		UpdatedAt: now,
	}
}

// TrustMetricsRow is the flat trust_metrics row as stored by the backend.
type TrustMetricsRow struct {
	UserID            string      `json:"user_id"`
	Score             int         `json:"score"`
	Rating            TrustRating `json:"rating"`
	OnTimePaymentRate float64     `json:"on_time_payment_rate"`
	YearsActive       float64     `json:"years_active"`
	PoolsCompleted    int         `json:"pools_completed"`
	DefaultsCount     int         `json:"defaults_count"`
	UpdatedAt         *time.Time  `json:"updated_at,omitempty"`
}

// TableName returns the name of the backend collection that stores trust metrics.
func (t TrustMetricsRow) TableName() string {
	return "trust_metrics"
}

// NewTrustMetricsRow builds the neutral trust_metrics row for userID.
func NewTrustMetricsRow(userID string) TrustMetricsRow {
	return TrustMetricsRow{
		UserID: userID,
		Score:  DefaultTrustScoreValue,
		Rating: DefaultTrustRating,
	}
}

// TrustScore converts the flat row into the embedded [TrustScore] shape.
func (t TrustMetricsRow) TrustScore() TrustScore {
	score := TrustScore{
		Score:  t.Score,
		Rating: t.Rating,
		Metrics: TrustMetrics{
			OnTimePaymentRate: t.OnTimePaymentRate,
			YearsActive:       t.YearsActive,
			PoolsCompleted:    t.PoolsCompleted,
			DefaultsCount:     t.DefaultsCount,
		},
	}
	if t.UpdatedAt != nil {
		score.UpdatedAt = *t.UpdatedAt
	}
	return score
}

// NewUserProfile is the users row written once at sign-up.
type NewUserProfile struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	WalletBalance float64 `json:"wallet_balance"`
	TotalSavings  float64 `json:"total_savings"`
}

// ProfileUpdate is a partial set of profile fields. Nil fields are left
// untouched both on the backend and in memory.
type ProfileUpdate struct {
	Name        *string        `json:"name,omitempty"`
	AvatarURL   *string        `json:"avatar_url,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.AvatarURL == nil && p.Phone == nil &&
		p.IsActive == nil && p.LastLoginAt == nil && p.Metadata == nil
}

// Apply merges the non-nil fields of p into a clone of u and returns it.
// Neither u nor p shares memory with the result.
func (p ProfileUpdate) Apply(u User) User {
	u = u.Clone()
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.AvatarURL != nil {
		avatar := *p.AvatarURL
		u.AvatarURL = &avatar
	}
	if p.Phone != nil {
		phone := *p.Phone
		u.Phone = &phone
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.LastLoginAt != nil {
		at := *p.LastLoginAt
		u.LastLoginAt = &at
	}
	if p.Metadata != nil {
		u.Metadata = maps.Clone(p.Metadata)
	}
	return u
}

// ProfileRecord is a users row joined with its trust_metrics row, which may
// not exist yet.
type ProfileRecord struct {
	User  User
	Trust *TrustScore
}

// Resolve returns the profile carrying its trust score, or the neutral one
// stamped with now when the record has none.
func (r ProfileRecord) Resolve(now time.Time) User {
	u := r.User
	if r.Trust != nil {
		u.TrustScore = *r.Trust
	} else {
		u.TrustScore = DefaultTrustScore(now)
	}
	return u
}
