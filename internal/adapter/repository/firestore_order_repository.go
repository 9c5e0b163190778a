package repository

import (
	"context"
	"log"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to create order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection("orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}
	return &order, nil
}

// ListByUserID returns orders where the user is either party, merged
// newest-first. Two queries because Firestore has no OR over fields.
func (r *firestoreOrderRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error) {
	var orders []*entity.Order

	for _, field := range []string{"buyerId", "sellerId"} {
		iter := r.client.Collection("orders").Where(field, "==", userID).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				log.Printf("Firestore error while iterating orders for user %s: %v", userID, err)
				return nil, 0, errors.Internal("Failed to iterate orders", err)
			}

			var order entity.Order
			if err := doc.DataTo(&order); err != nil {
				log.Printf("Error parsing order data for user %s: %v", userID, err)
				continue
			}
			orders = append(orders, &order)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].UpdatedAt.After(orders[j].UpdatedAt)
	})

	total := int64(len(orders))
	if offset > 0 {
		if offset >= len(orders) {
			return nil, total, nil
		}
		orders = orders[offset:]
	}
	if limit > 0 && limit < len(orders) {
		orders = orders[:limit]
	}

	return orders, total, nil
}

func (r *firestoreOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	order.UpdatedAt = time.Now()

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to update order", err)
	}
	return nil
}

type firestoreBarterRepository struct {
	client *firestore.Client
}

func NewFirestoreBarterRepository(client *firestore.Client) repository.BarterRepository {
	return &firestoreBarterRepository{
		client: client,
	}
}

func (r *firestoreBarterRepository) Create(ctx context.Context, barter *entity.BarterRequest) error {
	if barter.ID == "" {
		barter.ID = uuid.New().String()
	}

	now := time.Now()
	barter.CreatedAt = now
	barter.UpdatedAt = now

	_, err := r.client.Collection("barter_requests").Doc(barter.ID).Set(ctx, barter)
	if err != nil {
		return errors.Internal("Failed to create barter request", err)
	}

	return nil
}

func (r *firestoreBarterRepository) GetByID(ctx context.Context, id string) (*entity.BarterRequest, error) {
	doc, err := r.client.Collection("barter_requests").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Barter request", err)
		}
		return nil, errors.Internal("Failed to get barter request", err)
	}

	var barter entity.BarterRequest
	if err := doc.DataTo(&barter); err != nil {
		return nil, errors.Internal("Failed to parse barter request data", err)
	}
	return &barter, nil
}

func (r *firestoreBarterRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.BarterRequest, int64, error) {
	var barters []*entity.BarterRequest

	for _, field := range []string{"requesterId", "ownerId"} {
		iter := r.client.Collection("barter_requests").Where(field, "==", userID).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				log.Printf("Firestore error while iterating barter requests for user %s: %v", userID, err)
				return nil, 0, errors.Internal("Failed to iterate barter requests", err)
			}

			var barter entity.BarterRequest
			if err := doc.DataTo(&barter); err != nil {
				log.Printf("Error parsing barter request data for user %s: %v", userID, err)
				continue
			}
			barters = append(barters, &barter)
		}
	}

	sort.Slice(barters, func(i, j int) bool {
		return barters[i].UpdatedAt.After(barters[j].UpdatedAt)
	})

	total := int64(len(barters))
	if offset > 0 {
		if offset >= len(barters) {
			return nil, total, nil
		}
		barters = barters[offset:]
	}
	if limit > 0 && limit < len(barters) {
		barters = barters[:limit]
	}

	return barters, total, nil
}

func (r *firestoreBarterRepository) Update(ctx context.Context, barter *entity.BarterRequest) error {
	barter.UpdatedAt = time.Now()

	_, err := r.client.Collection("barter_requests").Doc(barter.ID).Set(ctx, barter)
	if err != nil {
		return errors.Internal("Failed to update barter request", err)
	}
	return nil
}
