package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error)
	Update(ctx context.Context, order *entity.Order) error
}

type BarterRepository interface {
	Create(ctx context.Context, barter *entity.BarterRequest) error
	GetByID(ctx context.Context, id string) (*entity.BarterRequest, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.BarterRequest, int64, error)
	Update(ctx context.Context, barter *entity.BarterRequest) error
}
