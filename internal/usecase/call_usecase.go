package usecase

import (
	"context"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/internal/infrastructure/realtime"
	"tukarlapak/pkg/errors"
)

// CallUseCase handles call signalling records and the incoming-call
// ephemeral frames; media transport is out of scope.
type CallUseCase struct {
	callRepo repository.CallRepository
	userRepo repository.UserRepository
	hub      *realtime.Hub
}

func NewCallUseCase(callRepo repository.CallRepository, userRepo repository.UserRepository, hub *realtime.Hub) *CallUseCase {
	return &CallUseCase{
		callRepo: callRepo,
		userRepo: userRepo,
		hub:      hub,
	}
}

func (uc *CallUseCase) StartCall(ctx context.Context, callerID, calleeID string) (*entity.Call, error) {
	if callerID == calleeID {
		return nil, errors.BadRequest("Cannot call yourself", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, calleeID); err != nil {
		return nil, err
	}

	call := &entity.Call{
		CallerID: callerID,
		CalleeID: calleeID,
		Status:   entity.CallRinging,
	}
	if err := uc.callRepo.Create(ctx, call); err != nil {
		return nil, err
	}

	if uc.hub.Online(calleeID) {
		uc.hub.Ephemeral(realtime.FrameIncomingCall, call, calleeID)
	} else {
		// Offline callee: the call is immediately missed.
		uc.missCall(ctx, call)
	}

	return call, nil
}

// RespondToCall accepts or declines a ringing call; only the callee may.
func (uc *CallUseCase) RespondToCall(ctx context.Context, userID, callID string, accept bool) (*entity.Call, error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if call.CalleeID != userID {
		return nil, errors.Forbidden("Only the callee can respond to a call", nil)
	}
	if call.Status != entity.CallRinging {
		return nil, errors.AlreadyHandled("This call is no longer ringing")
	}

	now := time.Now()
	if accept {
		call.Status = entity.CallAccepted
		call.StartedAt = &now
	} else {
		call.Status = entity.CallDeclined
	}
	if err := uc.callRepo.Update(ctx, call); err != nil {
		return nil, err
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "calls",
		Kind:       realtime.ChangeUpdated,
		EntityID:   call.ID,
		Entity:     call,
	}, call.CallerID, call.CalleeID)

	return call, nil
}

func (uc *CallUseCase) EndCall(ctx context.Context, userID, callID string) (*entity.Call, error) {
	call, err := uc.callRepo.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if call.CallerID != userID && call.CalleeID != userID {
		return nil, errors.Forbidden("You are not a party to this call", nil)
	}
	if call.Status != entity.CallAccepted && call.Status != entity.CallRinging {
		return call, nil
	}

	now := time.Now()
	if call.Status == entity.CallRinging {
		call.Status = entity.CallMissed
	} else {
		call.Status = entity.CallEnded
	}
	call.EndedAt = &now
	if err := uc.callRepo.Update(ctx, call); err != nil {
		return nil, err
	}

	uc.hub.Publish(realtime.ChangeEvent{
		Collection: "calls",
		Kind:       realtime.ChangeUpdated,
		EntityID:   call.ID,
		Entity:     call,
	}, call.CallerID, call.CalleeID)

	return call, nil
}

func (uc *CallUseCase) missCall(ctx context.Context, call *entity.Call) {
	call.Status = entity.CallMissed
	now := time.Now()
	call.EndedAt = &now
	_ = uc.callRepo.Update(ctx, call)
}
