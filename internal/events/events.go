package events

// Routing keys on the social.events topic exchange. The first five are
// published by this service; the post keys are produced by the post service
// and only consumed here.
const (
	FriendRequestSentKey     = "friend.request.sent"
	FriendRequestAcceptedKey = "friend.request.accepted"
	FriendRequestRejectedKey = "friend.request.rejected"
	FriendshipTerminatedKey  = "friendship.terminated"
	FollowChangedKey         = "follow.changed"

	PostCreatedKey = "post.created"
	PostDeletedKey = "post.deleted"
)

type FriendRequestSent struct {
	FriendshipID int64 `json:"friendship_id"`
	FromMemberID int64 `json:"from_member_id"`
	ToMemberID   int64 `json:"to_member_id"`
}

type FriendRequestAccepted struct {
	FriendshipID int64 `json:"friendship_id"`
	FromMemberID int64 `json:"from_member_id"`
	ToMemberID   int64 `json:"to_member_id"`
}

type FriendRequestRejected struct {
	FriendshipID int64 `json:"friendship_id"`
	FromMemberID int64 `json:"from_member_id"`
	ToMemberID   int64 `json:"to_member_id"`
}

type FriendshipTerminated struct {
	MemberID       int64 `json:"member_id"`
	FriendMemberID int64 `json:"friend_member_id"`
}

type FollowChanged struct {
	FollowerID  int64  `json:"follower_id"`
	FollowingID int64  `json:"following_id"`
	Status      string `json:"status"`
}

type PostCreated struct {
	MemberID int64 `json:"member_id"`
	PostID   int64 `json:"post_id"`
}

type PostDeleted struct {
	MemberID int64 `json:"member_id"`
	PostID   int64 `json:"post_id"`
}
