package models

import "time"

type Member struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Status   string `json:"status"`
}

const MemberActive = "ACTIVE"

func (m *Member) IsActive() bool {
	return m.Status == MemberActive
}

// MemberStats is the denormalized counter row for one member. It is derived
// state: every field must equal a count over the underlying relationship or
// post records, and only the counter synchronizer writes it.
type MemberStats struct {
	MemberID       int64     `db:"member_id" json:"member_id"`
	FollowersCount int64     `db:"followers_count" json:"followers_count"`
	FollowingCount int64     `db:"following_count" json:"following_count"`
	PostCount      int64     `db:"post_count" json:"post_count"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
