package stream

import (
	"context"
	"sync"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/logger"
)

// TradeTransitionDetail carries the extra fields barter transitions need.
type TradeTransitionDetail struct {
	Reason           string
	DeliveryProvider string
	TrackingLink     string
}

// TradeBackend is the barter mutation surface, implemented by
// usecase.BarterUseCase.
type TradeBackend interface {
	ListBarters(ctx context.Context, userID string, limit, offset int) ([]*entity.BarterRequest, int64, error)
	TransitionBarter(ctx context.Context, userID, barterID string, target entity.BarterStatus, detail TradeTransitionDetail) (*entity.BarterRequest, error)
	ConfirmMeetup(ctx context.Context, userID, barterID string) (*entity.BarterRequest, error)
}

// TradeStream materializes a user's barter requests with optimistic status
// transitions and the dual-confirmation meet-up completion rule.
type TradeStream struct {
	userID  string
	backend TradeBackend
	rec     *Reconciler[*entity.BarterRequest]

	mu      sync.Mutex
	loading bool
}

func NewTradeStream(userID string, backend TradeBackend) *TradeStream {
	return &TradeStream{
		userID:  userID,
		backend: backend,
		rec:     NewReconciler[*entity.BarterRequest](),
	}
}

func (s *TradeStream) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	barters, _, err := s.backend.ListBarters(ctx, s.userID, 50, 0)
	if err != nil {
		return err
	}
	s.rec.Load(barters)
	return nil
}

func (s *TradeStream) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *TradeStream) Barters() []*entity.BarterRequest {
	return s.rec.Items()
}

// Transition applies a role-checked barter transition optimistically.
func (s *TradeStream) Transition(ctx context.Context, barterID string, target entity.BarterStatus, detail TradeTransitionDetail) error {
	barter, ok := s.rec.ByID(barterID)
	if !ok {
		return errors.NotFound("Barter request", nil)
	}

	role := barter.RoleOf(s.userID)
	if role == "" {
		return errors.Forbidden("You are not a party to this trade", nil)
	}
	if !barter.CanTransition(target, role) {
		return errors.BadRequest("This status change is not allowed", nil)
	}
	if target == entity.BarterDeclined && detail.Reason == "" {
		return errors.BadRequest("A decline reason is required", nil)
	}

	snapshot := barter.Clone()
	now := time.Now()
	s.rec.Mutate(barterID, func(b *entity.BarterRequest) {
		applyBarterTransition(b, target, detail, now)
	})

	ack, err := s.backend.TransitionBarter(ctx, s.userID, barterID, target, detail)
	if err != nil {
		s.rec.Mutate(barterID, func(b *entity.BarterRequest) { *b = *snapshot })
		return err
	}
	s.rec.Apply(Event[*entity.BarterRequest]{Kind: EventUpdated, Entity: ack})
	return nil
}

// ConfirmMeetup sets the caller's confirmation flag. Status flips to
// completed only at the moment the second flag becomes true. The store write
// is fire-and-forget: the optimistic state is not rolled back on failure and
// the next bulk load is the recovery path.
func (s *TradeStream) ConfirmMeetup(ctx context.Context, barterID string) error {
	barter, ok := s.rec.ByID(barterID)
	if !ok {
		return errors.NotFound("Barter request", nil)
	}

	role := barter.RoleOf(s.userID)
	if role == "" {
		return errors.Forbidden("You are not a party to this trade", nil)
	}
	if barter.Status != entity.BarterAccepted {
		return errors.BadRequest("Only an accepted meet-up trade can be confirmed", nil)
	}
	if barter.DeliveryMethod != entity.DeliveryMeetUp {
		return errors.BadRequest("Confirmation applies to meet-up trades only", nil)
	}

	now := time.Now()
	s.rec.Mutate(barterID, func(b *entity.BarterRequest) {
		switch role {
		case entity.RoleRequester:
			b.RequesterConfirmed = true
		case entity.RoleOwner:
			b.OwnerConfirmed = true
		}
		if b.BothConfirmed() && b.Status == entity.BarterAccepted {
			b.Status = entity.BarterCompleted
			b.CompletedAt = &now
		}
		b.UpdatedAt = now
	})

	if _, err := s.backend.ConfirmMeetup(ctx, s.userID, barterID); err != nil {
		logger.Warn("meetup confirmation write failed for barter %s: %v", barterID, err)
	}
	return nil
}

func (s *TradeStream) OnEvent(ev Event[*entity.BarterRequest]) bool {
	return s.rec.Apply(ev)
}

func applyBarterTransition(b *entity.BarterRequest, target entity.BarterStatus, detail TradeTransitionDetail, now time.Time) {
	switch target {
	case entity.BarterDeclined:
		b.DeclineReason = detail.Reason
	case entity.BarterOnTheWay:
		b.DeliveryProvider = detail.DeliveryProvider
		b.TrackingLink = detail.TrackingLink
	case entity.BarterCompleted:
		b.CompletedAt = &now
	}
	b.Status = target
	b.UpdatedAt = now
}
