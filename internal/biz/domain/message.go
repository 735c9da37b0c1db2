package domain

import "time"

// Message represents one recorded chat message.
// Message IDs are only unique within a group, so the storage key is (ID, GroupID).
type Message struct {
	ID         int64
	GroupID    int64
	GroupName  string
	SenderID   int64
	SenderName string
	Text       string
	ReplyToID  int64 // 0 when the message is not a reply
	Timestamp  time.Time
}

// IsReply reports whether the message carries a reply target.
func (m *Message) IsReply() bool {
	return m.ReplyToID != 0
}

// DayStart returns the UTC start instant of the calendar day containing t.
func DayStart(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// DayEnd returns the last included second of the calendar day containing t.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).Add(24*time.Hour - time.Second)
}
