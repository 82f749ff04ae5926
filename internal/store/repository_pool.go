package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/models"
)

// poolRepository is the data-API implementation of [PoolRepository]. Row
// level security on the backend decides what the signed-in user may see.
type poolRepository struct {
	client *backend.Client
	logger *logger.Logger
}

// NewPoolRepository constructs a [PoolRepository] over client.
func NewPoolRepository(client *backend.Client, logger *logger.Logger) PoolRepository {
	logger.Debug().Msg("creating pool repository")
	return &poolRepository{
		client: client,
		logger: logger,
	}
}

// insertOne writes row into table and decodes the stored representation
// into dst.
func (r *poolRepository) insertOne(ctx context.Context, table string, row any, dst any) error {
	var rows []json.RawMessage
	res, err := r.client.From(table).Insert(row).Select("*").Execute(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "poolRepository.insertOne").
			Str("table", table).
			Msg("failed to insert row")
		return err
	}
	if err = res.Decode(&rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", ErrRowNotReturned, table)
	}
	if err = json.Unmarshal(rows[0], dst); err != nil {
		return fmt.Errorf("%w: %w", adapter.ErrDecodeResponse, err)
	}
	return nil
}

func (r *poolRepository) list(ctx context.Context, q *backend.Query, page models.PaginationParams, dst any) (models.ListMetadata, error) {
	sortBy := page.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}

	res, err := q.
		Order(sortBy, page.Ascending()).
		Limit(page.PageSize()).
		Offset(page.Offset()).
		Count().
		Execute(ctx)
	if err != nil {
		return models.ListMetadata{}, err
	}
	if err = res.Decode(dst); err != nil {
		return models.ListMetadata{}, err
	}

	meta := models.ListMetadata{Page: page.Page, Limit: page.PageSize(), Total: res.Count}
	if meta.Page < 1 {
		meta.Page = 1
	}
	return meta, nil
}

// CreatePool implements [PoolRepository].
func (r *poolRepository) CreatePool(ctx context.Context, pool models.NewPool) (models.Pool, error) {
	var created models.Pool
	if err := r.insertOne(ctx, models.Pool{}.TableName(), pool, &created); err != nil {
		return models.Pool{}, err
	}
	return created, nil
}

// GetPool implements [PoolRepository].
func (r *poolRepository) GetPool(ctx context.Context, poolID string) (models.Pool, error) {
	var pool models.Pool
	err := r.client.From(models.Pool{}.TableName()).
		Select("*").
		Eq("id", poolID).
		Single().
		ExecuteInto(ctx, &pool)
	return pool, err
}

// ListPools implements [PoolRepository].
func (r *poolRepository) ListPools(ctx context.Context, page models.PaginationParams) ([]models.Pool, models.ListMetadata, error) {
	pools := make([]models.Pool, 0)
	meta, err := r.list(ctx, r.client.From(models.Pool{}.TableName()).Select("*"), page, &pools)
	if err != nil {
		return nil, models.ListMetadata{}, err
	}
	return pools, meta, nil
}

// UpdatePool implements [PoolRepository].
func (r *poolRepository) UpdatePool(ctx context.Context, poolID string, update models.UpdatePoolInput) (models.Pool, error) {
	var pools []models.Pool
	err := r.client.From(models.Pool{}.TableName()).
		Update(update).
		Eq("id", poolID).
		Select("*").
		ExecuteInto(ctx, &pools)
	if err != nil {
		return models.Pool{}, err
	}
	if len(pools) == 0 {
		return models.Pool{}, fmt.Errorf("%w: pool %s", ErrRowNotReturned, poolID)
	}
	return pools[0], nil
}

// AddMember implements [PoolRepository].
func (r *poolRepository) AddMember(ctx context.Context, member models.NewPoolMember) (models.PoolMember, error) {
	var created models.PoolMember
	if err := r.insertOne(ctx, models.PoolMember{}.TableName(), member, &created); err != nil {
		return models.PoolMember{}, err
	}
	return created, nil
}

// ListMembers implements [PoolRepository]. Members come in rotation order.
func (r *poolRepository) ListMembers(ctx context.Context, poolID string) ([]models.PoolMember, error) {
	members := make([]models.PoolMember, 0)
	err := r.client.From(models.PoolMember{}.TableName()).
		Select("*").
		Eq("pool_id", poolID).
		Order("position", true).
		ExecuteInto(ctx, &members)
	return members, err
}

// CreateTransaction implements [PoolRepository].
func (r *poolRepository) CreateTransaction(ctx context.Context, tx models.NewTransaction) (models.Transaction, error) {
	var created models.Transaction
	if err := r.insertOne(ctx, models.Transaction{}.TableName(), tx, &created); err != nil {
		return models.Transaction{}, err
	}
	return created, nil
}

// ListTransactions implements [PoolRepository].
func (r *poolRepository) ListTransactions(ctx context.Context, poolID string, page models.PaginationParams) ([]models.Transaction, models.ListMetadata, error) {
	txs := make([]models.Transaction, 0)
	q := r.client.From(models.Transaction{}.TableName()).Select("*").Eq("pool_id", poolID)
	meta, err := r.list(ctx, q, page, &txs)
	if err != nil {
		return nil, models.ListMetadata{}, err
	}
	return txs, meta, nil
}

// CreateConstitution implements [PoolRepository].
func (r *poolRepository) CreateConstitution(ctx context.Context, c models.NewConstitution) (models.Constitution, error) {
	var created models.Constitution
	if err := r.insertOne(ctx, models.Constitution{}.TableName(), c, &created); err != nil {
		return models.Constitution{}, err
	}
	return created, nil
}

// GetActiveConstitution implements [PoolRepository].
func (r *poolRepository) GetActiveConstitution(ctx context.Context, poolID string) (models.Constitution, error) {
	var c models.Constitution
	err := r.client.From(models.Constitution{}.TableName()).
		Select("*").
		Eq("pool_id", poolID).
		Eq("is_active", true).
		Order("created_at", false).
		Limit(1).
		Single().
		ExecuteInto(ctx, &c)
	return c, err
}

// SignConstitution implements [PoolRepository].
func (r *poolRepository) SignConstitution(ctx context.Context, sig models.NewSignature) (models.MemberSignature, error) {
	var created models.MemberSignature
	if err := r.insertOne(ctx, models.MemberSignature{}.TableName(), sig, &created); err != nil {
		return models.MemberSignature{}, err
	}
	return created, nil
}

// CreateProposal implements [PoolRepository].
func (r *poolRepository) CreateProposal(ctx context.Context, p models.NewProposal) (models.Proposal, error) {
	var created models.Proposal
	if err := r.insertOne(ctx, models.Proposal{}.TableName(), p, &created); err != nil {
		return models.Proposal{}, err
	}
	return created, nil
}

// ListProposals implements [PoolRepository]. Newest first.
func (r *poolRepository) ListProposals(ctx context.Context, poolID string) ([]models.Proposal, error) {
	proposals := make([]models.Proposal, 0)
	err := r.client.From(models.Proposal{}.TableName()).
		Select("*").
		Eq("pool_id", poolID).
		Order("created_at", false).
		ExecuteInto(ctx, &proposals)
	return proposals, err
}

// CastVote implements [PoolRepository].
func (r *poolRepository) CastVote(ctx context.Context, vote models.NewVote) (models.Vote, error) {
	var created models.Vote
	if err := r.insertOne(ctx, models.Vote{}.TableName(), vote, &created); err != nil {
		return models.Vote{}, err
	}
	return created, nil
}
