package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tukarlapak/internal/domain/entity"
)

func msgAt(id, token, text string, at time.Time) *entity.Message {
	return &entity.Message{
		ID:          id,
		SenderID:    "user-a",
		Text:        text,
		Kind:        entity.MessageKindText,
		Status:      entity.MessageStatusSent,
		ClientToken: token,
		CreatedAt:   at,
	}
}

func TestAcknowledgmentReplacesOptimisticInPlace(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	r := NewReconciler[*entity.Message]()
	r.Load([]*entity.Message{
		msgAt("2", "", "second", base.Add(2*time.Minute)),
		msgAt("1", "", "first", base),
	})

	token := NewToken()
	r.InsertOptimistic(msgAt(token, token, "Hello", base.Add(5*time.Minute)))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, token, r.Items()[0].ID)

	// Server acknowledgment carrying the same correlation token.
	changed := r.Apply(Event[*entity.Message]{
		Kind:   EventCreated,
		Entity: msgAt("1001", token, "Hello", base.Add(5*time.Minute)),
	})
	assert.True(t, changed)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "1001", r.Items()[0].ID)
	assert.Equal(t, "Hello", r.Items()[0].Text)
}

func TestDuplicateCreatedDeliveryIgnored(t *testing.T) {
	base := time.Now()
	r := NewReconciler[*entity.Message]()

	ev := Event[*entity.Message]{Kind: EventCreated, Entity: msgAt("s-1", "", "hi", base)}
	assert.True(t, r.Apply(ev))
	assert.False(t, r.Apply(ev))
	assert.Equal(t, 1, r.Len())
}

func TestUpdateForUnknownIDIsNoOp(t *testing.T) {
	base := time.Now()
	r := NewReconciler[*entity.Message]()
	r.Load([]*entity.Message{msgAt("a", "", "hi", base)})

	changed := r.Apply(Event[*entity.Message]{
		Kind:   EventUpdated,
		Entity: msgAt("other-view", "", "elsewhere", base),
	})
	assert.False(t, changed)
	assert.Equal(t, 1, r.Len())
}

func TestUpdatePreservesPosition(t *testing.T) {
	base := time.Now()
	r := NewReconciler[*entity.Message]()
	r.Load([]*entity.Message{
		msgAt("c", "", "third", base.Add(2*time.Minute)),
		msgAt("b", "", "second", base.Add(time.Minute)),
		msgAt("a", "", "first", base),
	})

	updated := msgAt("b", "", "second", base.Add(time.Minute))
	updated.Status = entity.MessageStatusRead
	assert.True(t, r.Apply(Event[*entity.Message]{Kind: EventUpdated, Entity: updated}))

	items := r.Items()
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, entity.MessageStatusRead, items[1].Status)
}

func TestOrderingInvariantUnderOutOfOrderInserts(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	r := NewReconciler[*entity.Message]()

	// Events arrive out of timestamp order across independent channels.
	for _, m := range []*entity.Message{
		msgAt("m2", "", "", base.Add(2*time.Minute)),
		msgAt("m5", "", "", base.Add(5*time.Minute)),
		msgAt("m1", "", "", base.Add(1*time.Minute)),
		msgAt("m4", "", "", base.Add(4*time.Minute)),
		msgAt("m3", "", "", base.Add(3*time.Minute)),
	} {
		r.Apply(Event[*entity.Message]{Kind: EventCreated, Entity: m})
	}

	items := r.Items()
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt),
			"list must stay sorted newest-first")
	}
	assert.Equal(t, "m5", items[0].ID)
	assert.Equal(t, "m1", items[4].ID)
}

func TestDeletedRemovesByID(t *testing.T) {
	base := time.Now()
	r := NewReconciler[*entity.Message]()
	r.Load([]*entity.Message{msgAt("a", "", "hi", base)})

	assert.True(t, r.Apply(Event[*entity.Message]{Kind: EventDeleted, ID: "a"}))
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Apply(Event[*entity.Message]{Kind: EventDeleted, ID: "a"}))
}

func TestRollbackRemovesOnlyTheOptimisticEntry(t *testing.T) {
	base := time.Now()
	r := NewReconciler[*entity.Message]()
	r.Load([]*entity.Message{msgAt("srv", "", "stable", base)})

	token := NewToken()
	r.InsertOptimistic(msgAt(token, token, "doomed", base.Add(time.Minute)))

	removed, ok := r.Rollback(token)
	assert.True(t, ok)
	assert.Equal(t, "doomed", removed.Text)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "srv", r.Items()[0].ID)

	_, ok = r.Rollback(token)
	assert.False(t, ok)
}
