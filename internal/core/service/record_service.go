package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/crud-app/records-api/internal/api/metrics"
	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

// RecordService scopes every call to the record owner. A record owned by
// someone else is reported as domain.ErrRecordNotFound.
type RecordService struct {
	repo   ports.RecordRepository
	logger zerolog.Logger
}

func NewRecordService(repo ports.RecordRepository, logger zerolog.Logger) *RecordService {
	return &RecordService{repo: repo, logger: logger}
}

func (s *RecordService) Create(ctx context.Context, ownerID string, in ports.RecordInput) (*domain.Record, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	fields, err := domain.NewRecordFields(in.Username, in.Age, in.Specialization, in.Address)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Record{
		UserID:         ownerID,
		Username:       fields.Username,
		Age:            fields.Age,
		Specialization: fields.Specialization,
		Address:        fields.Address,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", ownerID).Msg("failed to create record")
		return nil, fmt.Errorf("create record: %w", err)
	}

	metrics.RecordOperationsTotal.WithLabelValues("create", "owner").Inc()
	s.logger.Info().Str("record_id", created.ID).Str("user_id", ownerID).Msg("record created")
	return created, nil
}

func (s *RecordService) List(ctx context.Context, ownerID string) ([]*domain.Record, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	records, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (s *RecordService) Get(ctx context.Context, ownerID, id string) (*domain.Record, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, id, ownerID)
}

func (s *RecordService) Update(ctx context.Context, ownerID, id string, in ports.RecordInput) (*domain.Record, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return updateRecord(ctx, s.repo, s.logger, id, ownerID, in)
}

func (s *RecordService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	return deleteRecord(ctx, s.repo, s.logger, id, ownerID)
}

// updateRecord and deleteRecord back both the owner and the admin paths.
// An empty ownerID lifts the ownership filter.
func updateRecord(ctx context.Context, repo ports.RecordRepository, log zerolog.Logger, id, ownerID string, in ports.RecordInput) (*domain.Record, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	fields, err := domain.NewRecordFields(in.Username, in.Age, in.Specialization, in.Address)
	if err != nil {
		return nil, err
	}

	updated, err := repo.Update(ctx, id, ownerID, fields)
	if err != nil {
		return nil, err
	}

	metrics.RecordOperationsTotal.WithLabelValues("update", scopeLabel(ownerID)).Inc()
	log.Info().Str("record_id", id).Str("user_id", ownerID).Msg("record updated")
	return updated, nil
}

func deleteRecord(ctx context.Context, repo ports.RecordRepository, log zerolog.Logger, id, ownerID string) error {
	if !domain.IsValidID(id) {
		return domain.ErrInvalidID
	}
	if err := repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	metrics.RecordOperationsTotal.WithLabelValues("delete", scopeLabel(ownerID)).Inc()
	log.Info().Str("record_id", id).Str("user_id", ownerID).Msg("record deleted")
	return nil
}

func scopeLabel(ownerID string) string {
	if ownerID == "" {
		return "admin"
	}
	return "owner"
}
