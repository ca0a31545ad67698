package services

import (
	"context"
	"encoding/json"
	"log"

	"relation-service/internal/cache"
	"relation-service/internal/events"
	"relation-service/internal/metrics"
	"relation-service/internal/models"
	"relation-service/internal/repositories"
)

// CounterSynchronizer keeps the denormalized member counters consistent with
// the relationship records. Friendship-derived follower/following counts are
// recomputed from the friendships table on every event rather than
// incremented: acceptance synthesizes a second row, so recounting from the
// source of truth is the only update that cannot drift and heals any drift
// already present. Post counts are plain increments; replays double-count
// them, matching the at-least-once contract of the post events.
type CounterSynchronizer struct {
	friendships repositories.FriendshipRepository
	memberStats repositories.MemberStatsRepository
	statsCache  *cache.StatsCache
}

func NewCounterSynchronizer(friendships repositories.FriendshipRepository, memberStats repositories.MemberStatsRepository, statsCache *cache.StatsCache) *CounterSynchronizer {
	return &CounterSynchronizer{friendships: friendships, memberStats: memberStats, statsCache: statsCache}
}

// HandleEvent dispatches one delivery by routing key. Unknown keys are
// acked and ignored.
func (s *CounterSynchronizer) HandleEvent(ctx context.Context, routingKey string, body []byte) error {
	var err error
	switch routingKey {
	case events.FriendRequestAcceptedKey:
		var event events.FriendRequestAccepted
		if err = json.Unmarshal(body, &event); err == nil {
			err = s.HandleFriendRequestAccepted(ctx, event)
		}
	case events.FriendshipTerminatedKey:
		var event events.FriendshipTerminated
		if err = json.Unmarshal(body, &event); err == nil {
			err = s.HandleFriendshipTerminated(ctx, event)
		}
	case events.FollowChangedKey:
		var event events.FollowChanged
		if err = json.Unmarshal(body, &event); err == nil {
			err = s.HandleFollowChanged(ctx, event)
		}
	case events.PostCreatedKey:
		var event events.PostCreated
		if err = json.Unmarshal(body, &event); err == nil {
			err = s.memberStats.IncrementPostCount(ctx, event.MemberID)
		}
	case events.PostDeletedKey:
		var event events.PostDeleted
		if err = json.Unmarshal(body, &event); err == nil {
			err = s.memberStats.DecrementPostCount(ctx, event.MemberID)
		}
	case events.FriendRequestSentKey, events.FriendRequestRejectedKey:
		// No counter is derived from these.
	default:
		log.Printf("warning: ignoring unknown routing key %s", routingKey)
	}

	if err != nil {
		metrics.IncCounterSync(routingKey, metrics.StatusFailed)
		return err
	}
	metrics.IncCounterSync(routingKey, metrics.StatusSuccess)
	return nil
}

// HandleFriendRequestAccepted recomputes the requester's following count and
// the addressee's follower count from accepted friendship rows.
func (s *CounterSynchronizer) HandleFriendRequestAccepted(ctx context.Context, event events.FriendRequestAccepted) error {
	if err := s.recomputeFollowing(ctx, event.FromMemberID); err != nil {
		return err
	}
	return s.recomputeFollowers(ctx, event.ToMemberID)
}

// HandleFriendshipTerminated recomputes both counters for both parties.
func (s *CounterSynchronizer) HandleFriendshipTerminated(ctx context.Context, event events.FriendshipTerminated) error {
	for _, memberID := range []int64{event.MemberID, event.FriendMemberID} {
		if err := s.recomputeFollowing(ctx, memberID); err != nil {
			return err
		}
		if err := s.recomputeFollowers(ctx, memberID); err != nil {
			return err
		}
	}
	return nil
}

// HandleFollowChanged invalidates both members' cached follow stats; the
// read path recounts ACTIVE edges from the follows table.
func (s *CounterSynchronizer) HandleFollowChanged(ctx context.Context, event events.FollowChanged) error {
	if s.statsCache == nil {
		return nil
	}
	if err := s.statsCache.Invalidate(ctx, event.FollowerID); err != nil {
		return err
	}
	return s.statsCache.Invalidate(ctx, event.FollowingID)
}

func (s *CounterSynchronizer) recomputeFollowing(ctx context.Context, memberID int64) error {
	count, err := s.friendships.CountByMemberAndStatus(ctx, memberID, repositories.RoleRequester, models.FriendshipAccepted)
	if err != nil {
		return err
	}
	return s.memberStats.SetFollowingCount(ctx, memberID, count)
}

func (s *CounterSynchronizer) recomputeFollowers(ctx context.Context, memberID int64) error {
	count, err := s.friendships.CountByMemberAndStatus(ctx, memberID, repositories.RoleAddressee, models.FriendshipAccepted)
	if err != nil {
		return err
	}
	return s.memberStats.SetFollowerCount(ctx, memberID, count)
}
