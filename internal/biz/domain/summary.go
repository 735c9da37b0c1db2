package domain

import "time"

// Summary is a stored daily summary for one group.
type Summary struct {
	ID        int64
	GroupID   int64
	GroupName string
	Date      time.Time // UTC day start
	Summary   string
	CreatedAt time.Time
}
