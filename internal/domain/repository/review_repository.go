package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	ListByReviewee(ctx context.Context, revieweeID string, limit, offset int) ([]*entity.Review, int64, error)
}

type CallRepository interface {
	Create(ctx context.Context, call *entity.Call) error
	GetByID(ctx context.Context, id string) (*entity.Call, error)
	Update(ctx context.Context, call *entity.Call) error
}
