package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/models"
)

const profileColumns = "*, trust_score:trust_metrics(*)"

// profileRepository is the data-API implementation of [ProfileRepository].
type profileRepository struct {
	client *backend.Client
	logger *logger.Logger
}

// NewProfileRepository constructs a [ProfileRepository] over client.
func NewProfileRepository(client *backend.Client, logger *logger.Logger) ProfileRepository {
	logger.Debug().Msg("creating profile repository")
	return &profileRepository{
		client: client,
		logger: logger,
	}
}

// profileRow is a users row with the embedded trust_metrics resource, which
// the data API returns as an array, an object or null depending on how the
// relationship is declared.
type profileRow struct {
	models.User
	TrustScore json.RawMessage `json:"trust_score"`
}

// GetProfile implements [ProfileRepository]. A missing users row yields
// [ErrProfileNotFound].
func (r *profileRepository) GetProfile(ctx context.Context, userID string) (models.ProfileRecord, error) {
	log := logger.FromContext(ctx)

	var row profileRow
	err := r.client.From(models.User{}.TableName()).
		Select(profileColumns).
		Eq("id", userID).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		if errors.Is(err, adapter.ErrNotAcceptable) {
			return models.ProfileRecord{}, fmt.Errorf("%w: %w", ErrProfileNotFound, err)
		}
		log.Err(err).
			Str("func", "profileRepository.GetProfile").
			Str("user_id", userID).
			Msg("failed to fetch profile")
		return models.ProfileRecord{}, err
	}

	trust, err := decodeTrust(row.TrustScore)
	if err != nil {
		return models.ProfileRecord{}, err
	}

	return models.ProfileRecord{User: row.User, Trust: trust}, nil
}

func decodeTrust(raw json.RawMessage) (*models.TrustScore, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var rows []models.TrustMetricsRow
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("%w: trust_score: %w", adapter.ErrDecodeResponse, err)
		}
	} else {
		var row models.TrustMetricsRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("%w: trust_score: %w", adapter.ErrDecodeResponse, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	score := rows[0].TrustScore()
	return &score, nil
}

// CreateProfile implements [ProfileRepository].
func (r *profileRepository) CreateProfile(ctx context.Context, profile models.NewUserProfile) error {
	if _, err := r.client.From(models.User{}.TableName()).Insert(profile).Execute(ctx); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "profileRepository.CreateProfile").
			Str("user_id", profile.ID).
			Msg("failed to insert profile")
		return err
	}
	return nil
}

// CreateTrustMetrics implements [ProfileRepository].
func (r *profileRepository) CreateTrustMetrics(ctx context.Context, row models.TrustMetricsRow) error {
	if _, err := r.client.From(row.TableName()).Insert(row).Execute(ctx); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "profileRepository.CreateTrustMetrics").
			Str("user_id", row.UserID).
			Msg("failed to insert trust metrics")
		return err
	}
	return nil
}

// UpdateProfile implements [ProfileRepository]. Only the fields present in
// update are sent.
func (r *profileRepository) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	_, err := r.client.From(models.User{}.TableName()).
		Update(update).
		Eq("id", userID).
		Execute(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "profileRepository.UpdateProfile").
			Str("user_id", userID).
			Msg("failed to update profile")
		return err
	}
	return nil
}

// TouchLastLogin implements [ProfileRepository].
func (r *profileRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	at = at.UTC()
	return r.UpdateProfile(ctx, userID, models.ProfileUpdate{LastLoginAt: &at})
}
