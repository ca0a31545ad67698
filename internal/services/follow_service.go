package services

import (
	"context"
	"errors"
	"log"

	"relation-service/internal/cache"
	"relation-service/internal/events"
	"relation-service/internal/models"
	"relation-service/internal/rabbitmq"
	"relation-service/internal/repositories"
)

// FollowStats is the follow-derived counter pair for one member, counted
// from ACTIVE follow edges.
type FollowStats struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// FollowService owns the asymmetric half of the graph. There is no
// reciprocal synthesis here; a follow edge stands alone.
type FollowService struct {
	follows   repositories.FollowRepository
	members   MemberResolver
	publisher rabbitmq.Publisher
	stats     *cache.StatsCache
}

func NewFollowService(follows repositories.FollowRepository, members MemberResolver, publisher rabbitmq.Publisher, stats *cache.StatsCache) *FollowService {
	return &FollowService{follows: follows, members: members, publisher: publisher, stats: stats}
}

// Follow creates an ACTIVE edge from follower to following, reusing and
// reactivating an existing row for the pair. A blocked row stays blocked.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID int64) (*models.Follow, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}
	if _, err := s.members.ResolveActiveMember(ctx, followerID); err != nil {
		return nil, s.asFollowError(err)
	}
	if _, err := s.members.ResolveActiveMember(ctx, followingID); err != nil {
		return nil, s.asFollowError(err)
	}

	follow, err := s.follows.CreateOrReactivate(ctx, followerID, followingID)
	if err != nil {
		return nil, followFailed(err)
	}
	if follow.Status == models.FollowBlocked {
		return nil, followFailed(&models.InvalidTransitionError{Entity: "follow", Current: string(follow.Status), Attempted: string(models.FollowActive)})
	}

	s.publishChange(ctx, follow)
	return follow, nil
}

// Unfollow moves an ACTIVE edge to UNFOLLOWED. Any other state is an invalid
// transition and is surfaced as such.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	follow, err := s.follows.GetByPair(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if err := follow.Unfollow(); err != nil {
		return err
	}
	if err := s.follows.UpdateStatus(ctx, follow.ID, follow.Status); err != nil {
		return err
	}

	s.publishChange(ctx, follow)
	return nil
}

// Block moves the edge to BLOCKED from any state.
func (s *FollowService) Block(ctx context.Context, followerID, followingID int64) error {
	follow, err := s.follows.GetByPair(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	follow.Block()
	if err := s.follows.UpdateStatus(ctx, follow.ID, follow.Status); err != nil {
		return err
	}

	s.publishChange(ctx, follow)
	return nil
}

// GetFollowStats counts ACTIVE edges from the source-of-truth table, going
// through the cache when one is configured.
func (s *FollowService) GetFollowStats(ctx context.Context, memberID int64) (*FollowStats, error) {
	if s.stats != nil {
		if cached, err := s.stats.Get(ctx, memberID); err == nil && cached != nil {
			return &FollowStats{FollowersCount: cached.FollowersCount, FollowingCount: cached.FollowingCount}, nil
		} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("warning: follow stats cache read failed: %v", err)
		}
	}

	followers, err := s.follows.CountFollowers(ctx, memberID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.CountFollowing(ctx, memberID)
	if err != nil {
		return nil, err
	}

	stats := &FollowStats{FollowersCount: followers, FollowingCount: following}
	if s.stats != nil {
		if err := s.stats.Set(ctx, memberID, &cache.FollowStats{FollowersCount: followers, FollowingCount: following}); err != nil {
			log.Printf("warning: follow stats cache write failed: %v", err)
		}
	}
	return stats, nil
}

func (s *FollowService) ListFollowers(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error) {
	return s.follows.ListFollowers(ctx, memberID, limit, offset)
}

func (s *FollowService) ListFollowing(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error) {
	return s.follows.ListFollowing(ctx, memberID, limit, offset)
}

// Relation reports both directions of the follow edge between two members.
func (s *FollowService) Relation(ctx context.Context, memberID, otherID int64) (isFollowing, isFollowedBy bool, err error) {
	isFollowing, err = s.follows.IsFollowing(ctx, memberID, otherID)
	if err != nil {
		return false, false, err
	}
	isFollowedBy, err = s.follows.IsFollowing(ctx, otherID, memberID)
	if err != nil {
		return false, false, err
	}
	return isFollowing, isFollowedBy, nil
}

func (s *FollowService) asFollowError(err error) error {
	if errors.Is(err, ErrMemberNotActive) {
		return err
	}
	return followFailed(err)
}

func (s *FollowService) publishChange(ctx context.Context, follow *models.Follow) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.FollowChangedKey, events.FollowChanged{
		FollowerID:  follow.FollowerID,
		FollowingID: follow.FollowingID,
		Status:      string(follow.Status),
	})
	if err != nil {
		log.Printf("warning: failed to publish %s: %v", events.FollowChangedKey, err)
	}
}
