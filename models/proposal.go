// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Proposal is a pool-level decision item put to a vote.
type Proposal struct {
	ID            string         `json:"id"`
	PoolID        string         `json:"pool_id"`
	CreatedBy     string         `json:"created_by"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Type          ProposalType   `json:"type"`
	Status        ProposalStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	Deadline      time.Time      `json:"deadline"`
	YesVotes      int            `json:"yes_votes"`
	NoVotes       int            `json:"no_votes"`
	AbstainVotes  int            `json:"abstain_votes"`
	RequiredVotes int            `json:"required_votes"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// TableName returns the name of the backend collection that stores proposals.
func (p Proposal) TableName() string {
	return "proposals"
}

// Vote is one member's ballot on a proposal.
type Vote struct {
	ID         string     `json:"id"`
	ProposalID string     `json:"proposal_id"`
	UserID     string     `json:"user_id"`
	Vote       VoteChoice `json:"vote"`
	Comment    *string    `json:"comment,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName returns the name of the backend collection that stores votes.
func (v Vote) TableName() string {
	return "votes"
}
