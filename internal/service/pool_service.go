package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/store"
	"github.com/MKhiriev/ubuntu-pools/internal/validators"
	"github.com/MKhiriev/ubuntu-pools/models"
)

type poolService struct {
	pools    store.PoolRepository
	identity IdentitySource

	logger *logger.Logger
}

// NewPoolService returns the [PoolService] that writes on behalf of the
// identity held by identity. It performs no input validation; wrap it with
// [NewPoolValidationService] for that.
func NewPoolService(pools store.PoolRepository, identity IdentitySource, log *logger.Logger) PoolService {
	return &poolService{
		pools:    pools,
		identity: identity,
		logger:   log.WithComponent("pools"),
	}
}

func (s *poolService) currentUserID() (string, error) {
	id := s.identity.Identity()
	if id == nil || id.ID == "" {
		return "", ErrNoUserLoggedIn
	}
	return id.ID, nil
}

// CreatePool stores a new pool and enrols the creator as its admin. When
// the membership insert fails the created pool is returned together with
// the error.
func (s *poolService) CreatePool(ctx context.Context, in models.CreatePoolInput) (models.Pool, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return models.Pool{}, err
	}

	in.ApplyDefaults()
	pool, err := s.pools.CreatePool(ctx, in.Row(userID))
	if err != nil {
		s.logger.Err(err).Str("func", "poolService.CreatePool").Msg("failed to create pool")
		return models.Pool{}, mapBackendError(err, nil)
	}

	if _, err = s.pools.AddMember(ctx, models.CreatorMembership(pool.ID, userID)); err != nil {
		s.logger.Err(err).
			Str("func", "poolService.CreatePool").
			Str("pool_id", pool.ID).
			Msg("pool created without creator membership")
		return pool, fmt.Errorf("add creator membership: %w", mapBackendError(err, nil))
	}

	return pool, nil
}

func (s *poolService) GetPool(ctx context.Context, poolID string) (models.Pool, error) {
	pool, err := s.pools.GetPool(ctx, poolID)
	if err != nil {
		return models.Pool{}, mapBackendError(err, ErrPoolNotFound)
	}
	return pool, nil
}

// ListPools returns one page of the pools visible to the signed-in user.
func (s *poolService) ListPools(ctx context.Context, page models.PaginationParams) (models.APIResponse[[]models.Pool], error) {
	pools, meta, err := s.pools.ListPools(ctx, page)
	if err != nil {
		return models.APIResponse[[]models.Pool]{}, mapBackendError(err, nil)
	}
	return models.APIResponse[[]models.Pool]{Data: &pools, Meta: &meta}, nil
}

func (s *poolService) UpdatePool(ctx context.Context, poolID string, in models.UpdatePoolInput) (models.Pool, error) {
	in.ApplyDefaults()
	pool, err := s.pools.UpdatePool(ctx, poolID, in)
	if err != nil {
		return models.Pool{}, mapBackendError(err, ErrPoolNotFound)
	}
	return pool, nil
}

func (s *poolService) ListMembers(ctx context.Context, poolID string) ([]models.PoolMember, error) {
	members, err := s.pools.ListMembers(ctx, poolID)
	if err != nil {
		return nil, mapBackendError(err, nil)
	}
	return members, nil
}

// RecordTransaction stores a pending ledger entry of the signed-in user.
func (s *poolService) RecordTransaction(ctx context.Context, in models.CreateTransactionInput) (models.Transaction, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return models.Transaction{}, err
	}

	in.ApplyDefaults()
	tx, err := s.pools.CreateTransaction(ctx, in.Row(userID))
	if err != nil {
		s.logger.Err(err).
			Str("func", "poolService.RecordTransaction").
			Str("pool_id", in.PoolID).
			Msg("failed to record transaction")
		return models.Transaction{}, mapBackendError(err, nil)
	}
	return tx, nil
}

func (s *poolService) ListTransactions(ctx context.Context, poolID string, page models.PaginationParams) (models.APIResponse[[]models.Transaction], error) {
	txs, meta, err := s.pools.ListTransactions(ctx, poolID, page)
	if err != nil {
		return models.APIResponse[[]models.Transaction]{}, mapBackendError(err, nil)
	}
	return models.APIResponse[[]models.Transaction]{Data: &txs, Meta: &meta}, nil
}

func (s *poolService) CreateConstitution(ctx context.Context, in models.CreateConstitutionInput) (models.Constitution, error) {
	c, err := s.pools.CreateConstitution(ctx, in.Row())
	if err != nil {
		return models.Constitution{}, mapBackendError(err, nil)
	}
	return c, nil
}

func (s *poolService) GetActiveConstitution(ctx context.Context, poolID string) (models.Constitution, error) {
	c, err := s.pools.GetActiveConstitution(ctx, poolID)
	if err != nil {
		return models.Constitution{}, mapBackendError(err, ErrNoActiveConstitution)
	}
	return c, nil
}

func (s *poolService) SignConstitution(ctx context.Context, in models.SignConstitutionInput) (models.MemberSignature, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return models.MemberSignature{}, err
	}

	sig, err := s.pools.SignConstitution(ctx, in.Row(userID))
	if err != nil {
		return models.MemberSignature{}, mapBackendError(err, nil)
	}
	return sig, nil
}

func (s *poolService) CreateProposal(ctx context.Context, in models.CreateProposalInput) (models.Proposal, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return models.Proposal{}, err
	}

	row, err := in.Row(userID)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("%w: %w", validators.ErrInvalidInput, err)
	}

	p, err := s.pools.CreateProposal(ctx, row)
	if err != nil {
		return models.Proposal{}, mapBackendError(err, nil)
	}
	return p, nil
}

func (s *poolService) ListProposals(ctx context.Context, poolID string) ([]models.Proposal, error) {
	proposals, err := s.pools.ListProposals(ctx, poolID)
	if err != nil {
		return nil, mapBackendError(err, nil)
	}
	return proposals, nil
}

// CastVote records the signed-in user's ballot. A second ballot on the same
// proposal fails with [ErrAlreadyExists].
func (s *poolService) CastVote(ctx context.Context, in models.VoteInput) (models.Vote, error) {
	userID, err := s.currentUserID()
	if err != nil {
		return models.Vote{}, err
	}

	vote, err := s.pools.CastVote(ctx, in.Row(userID))
	if err != nil {
		return models.Vote{}, mapBackendError(err, nil)
	}
	return vote, nil
}
