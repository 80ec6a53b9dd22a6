package entry

import "time"

// Entry is one user's competition identity, created lazily on first
// lineup submission.
type Entry struct {
	ID          string
	UserID      string
	DisplayName string
	CreatedAt   time.Time
}
