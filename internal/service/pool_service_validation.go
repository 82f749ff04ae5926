package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ubuntu-pools/internal/validators"
	"github.com/MKhiriev/ubuntu-pools/models"
)

// PoolValidationService checks every pool write before handing it to the
// wrapped service. Reads pass through unchanged.
type PoolValidationService struct {
	inner     PoolService
	validator validators.Validator
}

func NewPoolValidationService() PoolServiceWrapper {
	return &PoolValidationService{
		validator: validators.NewSchemaValidator(),
	}
}

func (v *PoolValidationService) Wrap(inner PoolService) PoolService {
	v.inner = inner
	return v
}

func (v *PoolValidationService) CreatePool(ctx context.Context, in models.CreatePoolInput) (models.Pool, error) {
	if err := validators.PrepareCreatePool(ctx, v.validator, &in); err != nil {
		return models.Pool{}, fmt.Errorf("error during pool validation: %w", err)
	}
	return v.inner.CreatePool(ctx, in)
}

func (v *PoolValidationService) GetPool(ctx context.Context, poolID string) (models.Pool, error) {
	return v.inner.GetPool(ctx, poolID)
}

func (v *PoolValidationService) ListPools(ctx context.Context, page models.PaginationParams) (models.APIResponse[[]models.Pool], error) {
	return v.inner.ListPools(ctx, page)
}

func (v *PoolValidationService) UpdatePool(ctx context.Context, poolID string, in models.UpdatePoolInput) (models.Pool, error) {
	if err := validators.PrepareUpdatePool(ctx, v.validator, &in); err != nil {
		return models.Pool{}, fmt.Errorf("error during pool update validation: %w", err)
	}
	return v.inner.UpdatePool(ctx, poolID, in)
}

func (v *PoolValidationService) ListMembers(ctx context.Context, poolID string) ([]models.PoolMember, error) {
	return v.inner.ListMembers(ctx, poolID)
}

func (v *PoolValidationService) RecordTransaction(ctx context.Context, in models.CreateTransactionInput) (models.Transaction, error) {
	if err := validators.PrepareCreateTransaction(ctx, v.validator, &in); err != nil {
		return models.Transaction{}, fmt.Errorf("error during transaction validation: %w", err)
	}
	return v.inner.RecordTransaction(ctx, in)
}

func (v *PoolValidationService) ListTransactions(ctx context.Context, poolID string, page models.PaginationParams) (models.APIResponse[[]models.Transaction], error) {
	return v.inner.ListTransactions(ctx, poolID, page)
}

func (v *PoolValidationService) CreateConstitution(ctx context.Context, in models.CreateConstitutionInput) (models.Constitution, error) {
	if err := v.validator.Validate(ctx, in); err != nil {
		return models.Constitution{}, fmt.Errorf("error during constitution validation: %w", err)
	}
	return v.inner.CreateConstitution(ctx, in)
}

func (v *PoolValidationService) GetActiveConstitution(ctx context.Context, poolID string) (models.Constitution, error) {
	return v.inner.GetActiveConstitution(ctx, poolID)
}

func (v *PoolValidationService) SignConstitution(ctx context.Context, in models.SignConstitutionInput) (models.MemberSignature, error) {
	if err := v.validator.Validate(ctx, in); err != nil {
		return models.MemberSignature{}, fmt.Errorf("error during signature validation: %w", err)
	}
	return v.inner.SignConstitution(ctx, in)
}

func (v *PoolValidationService) CreateProposal(ctx context.Context, in models.CreateProposalInput) (models.Proposal, error) {
	if err := v.validator.Validate(ctx, in); err != nil {
		return models.Proposal{}, fmt.Errorf("error during proposal validation: %w", err)
	}
	return v.inner.CreateProposal(ctx, in)
}

func (v *PoolValidationService) ListProposals(ctx context.Context, poolID string) ([]models.Proposal, error) {
	return v.inner.ListProposals(ctx, poolID)
}

func (v *PoolValidationService) CastVote(ctx context.Context, in models.VoteInput) (models.Vote, error) {
	if err := v.validator.Validate(ctx, in); err != nil {
		return models.Vote{}, fmt.Errorf("error during vote validation: %w", err)
	}
	return v.inner.CastVote(ctx, in)
}
