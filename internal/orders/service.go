package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const defaultHistoryLimit = 20

// Service exposes read access to placed orders.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID string) ([]OrderDTO, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

// ListForUser returns recent orders of a signed-in shopper. Guest orders are
// never listed.
func (s *service) ListForUser(ctx context.Context, userID string) ([]OrderDTO, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || userID == models.GuestUserID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view order history")
	}
	rows, err := s.repo.ListByUser(ctx, userID, defaultHistoryLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrderDTO(row))
	}
	return out, nil
}
