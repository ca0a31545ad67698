package models

import "time"

type FriendshipStatus string

const (
	FriendshipPending    FriendshipStatus = "PENDING"
	FriendshipAccepted   FriendshipStatus = "ACCEPTED"
	FriendshipRejected   FriendshipStatus = "REJECTED"
	FriendshipUnfriended FriendshipStatus = "UNFRIENDED"
)

// Friendship is one directed edge from MemberID to FriendMemberID. A mutual
// friendship is two rows, one per direction, each ACCEPTED on its own.
type Friendship struct {
	ID             int64            `db:"id" json:"id"`
	MemberID       int64            `db:"member_id" json:"member_id"`
	FriendMemberID int64            `db:"friend_member_id" json:"friend_member_id"`
	FriendNickname string           `db:"friend_nickname" json:"friend_nickname"`
	Status         FriendshipStatus `db:"status" json:"status"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// IsRequestedBy reports whether memberID is the sender side of this row.
func (f *Friendship) IsRequestedBy(memberID int64) bool {
	return f.MemberID == memberID
}

// IsReceivedBy reports whether memberID is the addressee of this row. Only
// the addressee may accept or reject it.
func (f *Friendship) IsReceivedBy(memberID int64) bool {
	return f.FriendMemberID == memberID
}

// Accept moves a pending request to ACCEPTED.
func (f *Friendship) Accept() error {
	if f.Status != FriendshipPending {
		return &InvalidTransitionError{Entity: "friendship", Current: string(f.Status), Attempted: string(FriendshipAccepted)}
	}
	f.Status = FriendshipAccepted
	return nil
}

// Reject moves a pending request to REJECTED.
func (f *Friendship) Reject() error {
	if f.Status != FriendshipPending {
		return &InvalidTransitionError{Entity: "friendship", Current: string(f.Status), Attempted: string(FriendshipRejected)}
	}
	f.Status = FriendshipRejected
	return nil
}

// Unfriend moves an accepted friendship to UNFRIENDED.
func (f *Friendship) Unfriend() error {
	if f.Status != FriendshipAccepted {
		return &InvalidTransitionError{Entity: "friendship", Current: string(f.Status), Attempted: string(FriendshipUnfriended)}
	}
	f.Status = FriendshipUnfriended
	return nil
}

// Reactivate force-resets the row to PENDING regardless of its current
// status. Re-requesting reuses the existing row rather than inserting a
// duplicate, even when the row is already PENDING or ACCEPTED.
func (f *Friendship) Reactivate() {
	f.Status = FriendshipPending
}
