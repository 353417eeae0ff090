package domain

import "time"

// SnapshotInfo summarizes one saved revision of a diagram.
type SnapshotInfo struct {
	ID       int64
	SavedAt  time.Time
	Entities int
	Links    int
}
