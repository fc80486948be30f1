package sales

import (
	"context"
	"strings"

	"go-placement/pkg/apperrors"

	"go.uber.org/zap"
)

// CreateRepInput carries admin-provided fields for a new sales rep.
type CreateRepInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	SalesID   string `json:"sales_id"`
}

// SalesService manages the sales rep directory.
type SalesService interface {
	CreateRep(ctx context.Context, in CreateRepInput) (*SalesUser, error)
	GetRep(ctx context.Context, salesID string) (*SalesUser, error)
	ListReps(ctx context.Context) ([]SalesUser, error)
}

type SalesServiceImpl struct {
	repo   SalesRepository
	logger *zap.Logger
}

func NewSalesService(repo SalesRepository, logger *zap.Logger) SalesService {
	return &SalesServiceImpl{repo: repo, logger: logger}
}

func (s *SalesServiceImpl) CreateRep(ctx context.Context, in CreateRepInput) (*SalesUser, error) {
	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(in.SalesID) == "" {
		missing = append(missing, "sales_id")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidation("missing required fields", map[string]any{"fields": missing})
	}

	if existing, err := s.repo.FindBySalesID(ctx, in.SalesID); err == nil && existing != nil {
		return nil, apperrors.NewConflict("sales_id already exists", map[string]any{"sales_id": in.SalesID})
	}

	rep := &SalesUser{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		SalesID:   in.SalesID,
		Workload:  0,
		IsFree:    true,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	s.logger.Info("sales rep created",
		zap.String("salesId", rep.SalesID),
		zap.String("email", rep.Email))

	return rep, nil
}

func (s *SalesServiceImpl) GetRep(ctx context.Context, salesID string) (*SalesUser, error) {
	return s.repo.FindBySalesID(ctx, salesID)
}

func (s *SalesServiceImpl) ListReps(ctx context.Context) ([]SalesUser, error) {
	return s.repo.FindAll(ctx)
}
