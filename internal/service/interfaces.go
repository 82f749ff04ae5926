// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"io"

	"github.com/MKhiriev/ubuntu-pools/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=PoolServiceWrapper

// AuthBackend is the part of the backend client the auth session manager
// drives. *backend.Client satisfies it.
type AuthBackend interface {
	GetSession(ctx context.Context) (*models.Session, error)
	SignInWithPassword(ctx context.Context, creds models.Credentials) (models.Session, error)
	SignUp(ctx context.Context, creds models.Credentials, data map[string]any) (models.SignUpResult, error)
	SignOut(ctx context.Context) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, password string) (models.SessionIdentity, error)
	OnAuthStateChange(handler func(models.AuthChange)) models.AuthSubscription
	SiteURL() string
}

// AuthService is the consumer-facing contract of the auth session manager.
// Presentation code reads the current profile and identity from it and
// calls its operations; it never touches session state directly.
type AuthService interface {
	// Start performs the initial persisted-session check and subscribes to
	// backend session changes.
	Start(ctx context.Context)
	// Close releases the subscription and waits for background work.
	Close()

	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, name string) error
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
	ResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, password string) error
	RefreshProfile(ctx context.Context) error

	User() *models.User
	Identity() *models.SessionIdentity
	IsAuthenticated() bool
	IsLoading() bool
	State() models.AuthState
	Snapshot() models.AuthSnapshot
}

// IdentitySource reports who is signed in. Services that attribute writes
// to the current user depend on it.
type IdentitySource interface {
	Identity() *models.SessionIdentity
}

// PoolService runs the pool operations of the signed-in user.
type PoolService interface {
	CreatePool(ctx context.Context, in models.CreatePoolInput) (models.Pool, error)
	GetPool(ctx context.Context, poolID string) (models.Pool, error)
	ListPools(ctx context.Context, page models.PaginationParams) (models.APIResponse[[]models.Pool], error)
	UpdatePool(ctx context.Context, poolID string, in models.UpdatePoolInput) (models.Pool, error)
	ListMembers(ctx context.Context, poolID string) ([]models.PoolMember, error)

	RecordTransaction(ctx context.Context, in models.CreateTransactionInput) (models.Transaction, error)
	ListTransactions(ctx context.Context, poolID string, page models.PaginationParams) (models.APIResponse[[]models.Transaction], error)

	CreateConstitution(ctx context.Context, in models.CreateConstitutionInput) (models.Constitution, error)
	GetActiveConstitution(ctx context.Context, poolID string) (models.Constitution, error)
	SignConstitution(ctx context.Context, in models.SignConstitutionInput) (models.MemberSignature, error)

	CreateProposal(ctx context.Context, in models.CreateProposalInput) (models.Proposal, error)
	ListProposals(ctx context.Context, poolID string) ([]models.Proposal, error)
	CastVote(ctx context.Context, in models.VoteInput) (models.Vote, error)
}

// PoolServiceWrapper decorates a PoolService with additional behavior such
// as input validation.
type PoolServiceWrapper interface {
	Wrap(PoolService) PoolService
}

// AvatarService replaces the signed-in user's profile picture.
type AvatarService interface {
	UploadAvatar(ctx context.Context, contentType string, body io.Reader) (string, error)
}
