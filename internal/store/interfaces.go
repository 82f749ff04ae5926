package store

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/ubuntu-pools/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SessionRepository is the durable client-side key/value store the backend
// client persists its session in.
type SessionRepository interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// ProfileRepository reads and writes the users and trust_metrics rows of the
// data API.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (models.ProfileRecord, error)
	CreateProfile(ctx context.Context, profile models.NewUserProfile) error
	CreateTrustMetrics(ctx context.Context, row models.TrustMetricsRow) error
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// PoolRepository reads and writes pools and everything hanging off them.
type PoolRepository interface {
	CreatePool(ctx context.Context, pool models.NewPool) (models.Pool, error)
	GetPool(ctx context.Context, poolID string) (models.Pool, error)
	ListPools(ctx context.Context, page models.PaginationParams) ([]models.Pool, models.ListMetadata, error)
	UpdatePool(ctx context.Context, poolID string, update models.UpdatePoolInput) (models.Pool, error)

	AddMember(ctx context.Context, member models.NewPoolMember) (models.PoolMember, error)
	ListMembers(ctx context.Context, poolID string) ([]models.PoolMember, error)

	CreateTransaction(ctx context.Context, tx models.NewTransaction) (models.Transaction, error)
	ListTransactions(ctx context.Context, poolID string, page models.PaginationParams) ([]models.Transaction, models.ListMetadata, error)

	CreateConstitution(ctx context.Context, c models.NewConstitution) (models.Constitution, error)
	GetActiveConstitution(ctx context.Context, poolID string) (models.Constitution, error)
	SignConstitution(ctx context.Context, sig models.NewSignature) (models.MemberSignature, error)

	CreateProposal(ctx context.Context, p models.NewProposal) (models.Proposal, error)
	ListProposals(ctx context.Context, poolID string) ([]models.Proposal, error)
	CastVote(ctx context.Context, vote models.NewVote) (models.Vote, error)
}

// AvatarStorage keeps profile pictures in an S3-compatible bucket.
type AvatarStorage interface {
	// Upload stores the picture and returns its public URL.
	Upload(ctx context.Context, userID, contentType string, body io.Reader) (string, error)
}
