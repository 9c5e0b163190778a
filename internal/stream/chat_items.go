package stream

import (
	"time"

	"tukarlapak/internal/domain/entity"
)

// ChatItem is one rendered entry of a newest-first conversation view:
// either a message (with a minute-grouping flag) or a date separator
// pseudo-entry (DayLabel set, Message nil).
type ChatItem struct {
	Message   *entity.Message
	DayLabel  string
	NewMinute bool
}

// BuildChatItems interleaves date separators with messages and flags the
// first message of each minute-precision group. Input is newest-first; a
// day's separator sits after that day's oldest message, so it renders above
// the day group in an inverted list.
func BuildChatItems(msgs []*entity.Message) []ChatItem {
	items := make([]ChatItem, 0, len(msgs)+4)
	now := time.Now()

	for i, m := range msgs {
		newMinute := true
		if i+1 < len(msgs) {
			older := msgs[i+1]
			newMinute = older.SenderID != m.SenderID || !sameMinute(older.CreatedAt, m.CreatedAt)
		}
		items = append(items, ChatItem{Message: m, NewMinute: newMinute})

		if i+1 == len(msgs) || !sameDay(msgs[i+1].CreatedAt, m.CreatedAt) {
			items = append(items, ChatItem{DayLabel: dayLabel(m.CreatedAt, now)})
		}
	}
	return items
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMinute(a, b time.Time) bool {
	return sameDay(a, b) && a.Hour() == b.Hour() && a.Minute() == b.Minute()
}

func dayLabel(t, now time.Time) string {
	if sameDay(t, now) {
		return "Today"
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}
