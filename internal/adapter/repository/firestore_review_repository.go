package repository

import (
	"context"
	"log"
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

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("reviews").Doc(review.ID).Set(ctx, review)
	if err != nil {
		return errors.Internal("Failed to create review", err)
	}

	return nil
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection("reviews").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Review", err)
		}
		return nil, errors.Internal("Failed to get review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}
	return &review, nil
}

func (r *firestoreReviewRepository) ListByReviewee(ctx context.Context, revieweeID string, limit, offset int) ([]*entity.Review, int64, error) {
	query := r.client.Collection("reviews").
		Where("revieweeId", "==", revieweeID).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count reviews", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var reviews []*entity.Review

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate reviews", err)
		}

		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			log.Printf("Error parsing review data for user %s: %v", revieweeID, err)
			continue
		}
		reviews = append(reviews, &review)
	}

	return reviews, total, nil
}

type firestoreSavedReplyRepository struct {
	client *firestore.Client
}

func NewFirestoreSavedReplyRepository(client *firestore.Client) repository.SavedReplyRepository {
	return &firestoreSavedReplyRepository{
		client: client,
	}
}

func (r *firestoreSavedReplyRepository) Create(ctx context.Context, reply *entity.SavedReply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("saved_replies").Doc(reply.ID).Set(ctx, reply)
	if err != nil {
		return errors.Internal("Failed to create saved reply", err)
	}
	return nil
}

func (r *firestoreSavedReplyRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.SavedReply, error) {
	iter := r.client.Collection("saved_replies").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	var replies []*entity.SavedReply
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate saved replies", err)
		}

		var reply entity.SavedReply
		if err := doc.DataTo(&reply); err != nil {
			log.Printf("Error parsing saved reply data for user %s: %v", userID, err)
			continue
		}
		replies = append(replies, &reply)
	}

	return replies, nil
}

func (r *firestoreSavedReplyRepository) Delete(ctx context.Context, userID, replyID string) error {
	doc, err := r.client.Collection("saved_replies").Doc(replyID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Saved reply", err)
		}
		return errors.Internal("Failed to get saved reply", err)
	}

	var reply entity.SavedReply
	if err := doc.DataTo(&reply); err != nil {
		return errors.Internal("Failed to parse saved reply data", err)
	}
	if reply.UserID != userID {
		return errors.Forbidden("Saved reply belongs to another user", nil)
	}

	if _, err := r.client.Collection("saved_replies").Doc(replyID).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete saved reply", err)
	}
	return nil
}

type firestoreCallRepository struct {
	client *firestore.Client
}

func NewFirestoreCallRepository(client *firestore.Client) repository.CallRepository {
	return &firestoreCallRepository{
		client: client,
	}
}

func (r *firestoreCallRepository) Create(ctx context.Context, call *entity.Call) error {
	if call.ID == "" {
		call.ID = uuid.New().String()
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now()
	}
	if call.Status == "" {
		call.Status = entity.CallRinging
	}

	_, err := r.client.Collection("calls").Doc(call.ID).Set(ctx, call)
	if err != nil {
		return errors.Internal("Failed to create call", err)
	}
	return nil
}

func (r *firestoreCallRepository) GetByID(ctx context.Context, id string) (*entity.Call, error) {
	doc, err := r.client.Collection("calls").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Call", err)
		}
		return nil, errors.Internal("Failed to get call", err)
	}

	var call entity.Call
	if err := doc.DataTo(&call); err != nil {
		return nil, errors.Internal("Failed to parse call data", err)
	}
	return &call, nil
}

func (r *firestoreCallRepository) Update(ctx context.Context, call *entity.Call) error {
	_, err := r.client.Collection("calls").Doc(call.ID).Set(ctx, call)
	if err != nil {
		return errors.Internal("Failed to update call", err)
	}
	return nil
}
