package models

import "time"

type FollowStatus string

const (
	FollowActive     FollowStatus = "ACTIVE"
	FollowUnfollowed FollowStatus = "UNFOLLOWED"
	FollowBlocked    FollowStatus = "BLOCKED"
)

// Follow is one directed edge from FollowerID to FollowingID. There is no
// reciprocal row; following is asymmetric.
type Follow struct {
	ID          int64        `db:"id" json:"id"`
	FollowerID  int64        `db:"follower_id" json:"follower_id"`
	FollowingID int64        `db:"following_id" json:"following_id"`
	Status      FollowStatus `db:"status" json:"status"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// IsOwnedBy reports whether memberID is the follower side of this row.
func (f *Follow) IsOwnedBy(memberID int64) bool {
	return f.FollowerID == memberID
}

// Unfollow moves an active follow to UNFOLLOWED.
func (f *Follow) Unfollow() error {
	if f.Status != FollowActive {
		return &InvalidTransitionError{Entity: "follow", Current: string(f.Status), Attempted: string(FollowUnfollowed)}
	}
	f.Status = FollowUnfollowed
	return nil
}

// Block moves the row to BLOCKED from any state. BLOCKED is terminal; there
// is no public unblock operation.
func (f *Follow) Block() {
	f.Status = FollowBlocked
}

// Reactivate resets the row to ACTIVE. A re-follow reuses the existing row,
// matching the friend-request reactivation semantics. Blocked rows do not
// reactivate.
func (f *Follow) Reactivate() error {
	if f.Status == FollowBlocked {
		return &InvalidTransitionError{Entity: "follow", Current: string(f.Status), Attempted: string(FollowActive)}
	}
	f.Status = FollowActive
	return nil
}
