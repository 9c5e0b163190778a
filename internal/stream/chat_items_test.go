package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tukarlapak/internal/domain/entity"
)

func TestBuildChatItemsInsertsDaySeparators(t *testing.T) {
	today := time.Now()
	yesterday := today.Add(-24 * time.Hour)

	newest := msgAt("m-3", "", "today", today)
	older := msgAt("m-2", "", "yesterday late", yesterday)
	oldest := msgAt("m-1", "", "yesterday early", yesterday.Add(-time.Hour))

	items := BuildChatItems([]*entity.Message{newest, older, oldest})

	// newest, [Today], older, oldest, [Yesterday]
	assert.Len(t, items, 5)
	assert.Equal(t, "m-3", items[0].Message.ID)
	assert.Equal(t, "Today", items[1].DayLabel)
	assert.Equal(t, "m-2", items[2].Message.ID)
	assert.Equal(t, "m-1", items[3].Message.ID)
	assert.Equal(t, "Yesterday", items[4].DayLabel)
}

func TestBuildChatItemsMinuteGrouping(t *testing.T) {
	base := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

	first := msgAt("m-1", "", "one", base)
	second := msgAt("m-2", "", "two", base.Add(10*time.Second))
	fromOther := msgAt("m-3", "", "three", base.Add(20*time.Second))
	fromOther.SenderID = "user-b"
	later := msgAt("m-4", "", "four", base.Add(3*time.Minute))

	items := BuildChatItems([]*entity.Message{later, fromOther, second, first})

	// Newest-first: m-4 opens a new minute, m-3 a new sender, m-2 continues
	// m-1's minute group, m-1 opens the group.
	assert.True(t, items[0].NewMinute)
	assert.True(t, items[1].NewMinute)
	assert.False(t, items[2].NewMinute)
	assert.True(t, items[3].NewMinute)
}

func TestBuildChatItemsEmpty(t *testing.T) {
	assert.Empty(t, BuildChatItems(nil))
}

func TestDayLabelFormatsOlderDates(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", dayLabel(now, now))
	assert.Equal(t, "Yesterday", dayLabel(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Jun 1, 2025", dayLabel(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), now))
}
