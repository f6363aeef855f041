package services

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	"Sistem-Absensi-RFID/repository"
)

// QueryService keeps the support questions organizations submit.
type QueryService interface {
	// Submit stores a query for orgID. Visibility defaults to private.
	Submit(ctx context.Context, orgID primitive.ObjectID, payload *models.QuerySubmitPayload) (*models.Query, error)
	ListPublic(ctx context.Context, page, pageSize int64) (*models.QueryPage, error)
	CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

type queryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewQueryService(repo *repository.Repository, logger *zap.Logger) QueryService {
	return &queryService{repo: repo, logger: logger}
}

func (s *queryService) Submit(ctx context.Context, orgID primitive.ObjectID, payload *models.QuerySubmitPayload) (*models.Query, error) {
	content := strings.TrimSpace(payload.Content)
	if content == "" {
		return nil, apperror.Invalid("query content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxQueryLength {
		return nil, apperror.Invalid("query content must be under %d characters", models.MaxQueryLength)
	}

	visibility := models.QueryPrivate
	switch v := strings.ToLower(strings.TrimSpace(payload.Visibility)); v {
	case "":
	case string(models.QueryPublic), string(models.QueryPrivate):
		visibility = models.QueryVisibility(v)
	default:
		return nil, apperror.Invalid("visibility must be public or private, got %q", payload.Visibility)
	}

	if _, err := s.repo.Organization.FindByID(ctx, orgID); err != nil {
		return nil, err
	}

	q := &models.Query{
		OrganizationID: orgID,
		Subject:        strings.TrimSpace(payload.Subject),
		Content:        content,
		Visibility:     visibility,
		Status:         models.QueryPending,
	}
	if err := s.repo.Query.Create(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("query submitted",
		zap.String("organization_id", orgID.Hex()),
		zap.String("visibility", string(visibility)),
	)
	return q, nil
}

func (s *queryService) ListPublic(ctx context.Context, page, pageSize int64) (*models.QueryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	queries, total, err := s.repo.Query.PagePublic(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &models.QueryPage{
		Queries:    queries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int64(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *queryService) CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.repo.Query.CountByOrganization(ctx, orgID)
}
