package services

import (
	"context"
	"errors"
	"log"

	"relation-service/internal/events"
	"relation-service/internal/models"
	"relation-service/internal/rabbitmq"
	"relation-service/internal/repositories"
)

// FriendService owns the friendship half of the relationship graph: sending
// and deduplicating requests, responding to them, and tearing friendships
// down. A mutual friendship is two directed rows kept symmetric by this
// service, not by the schema.
type FriendService struct {
	friendships repositories.FriendshipRepository
	members     MemberResolver
	publisher   rabbitmq.Publisher
}

func NewFriendService(friendships repositories.FriendshipRepository, members MemberResolver, publisher rabbitmq.Publisher) *FriendService {
	return &FriendService{friendships: friendships, members: members, publisher: publisher}
}

// SendFriendRequest creates a PENDING request from one member to another. If
// a row already exists for the ordered pair it is reused and force-reset to
// PENDING whatever its prior status was, including ACCEPTED. Self-requests
// are rejected at the transport boundary, not here.
func (s *FriendService) SendFriendRequest(ctx context.Context, fromMemberID, toMemberID int64) (*models.Friendship, error) {
	if _, err := s.members.ResolveActiveMember(ctx, fromMemberID); err != nil {
		return nil, s.asRequestError(err)
	}
	toMember, err := s.members.ResolveActiveMember(ctx, toMemberID)
	if err != nil {
		return nil, s.asRequestError(err)
	}

	friendship, err := s.friendships.CreateOrReactivate(ctx, fromMemberID, toMemberID, toMember.Nickname)
	if err != nil {
		return nil, friendRequestFailed(err)
	}

	s.logPublish(ctx, events.FriendRequestSentKey, events.FriendRequestSent{
		FriendshipID: friendship.ID,
		FromMemberID: friendship.MemberID,
		ToMemberID:   friendship.FriendMemberID,
	})

	return friendship, nil
}

// RespondToFriendRequest accepts or rejects a pending request. Only the
// addressee of the row may respond. Accepting synthesizes the mirror row so
// both directions end up ACCEPTED.
func (s *FriendService) RespondToFriendRequest(ctx context.Context, friendshipID, respondentMemberID int64, accept bool) (*models.Friendship, error) {
	if _, err := s.members.ResolveActiveMember(ctx, respondentMemberID); err != nil {
		return nil, friendResponseFailed(err)
	}

	friendship, err := s.friendships.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrFriendshipNotFound) {
			return nil, err
		}
		return nil, friendResponseFailed(err)
	}

	if !friendship.IsReceivedBy(respondentMemberID) {
		return nil, ErrNotAuthorized
	}

	if !accept {
		if err := friendship.Reject(); err != nil {
			return nil, friendResponseFailed(err)
		}
		if err := s.friendships.UpdateStatus(ctx, friendship.ID, friendship.Status); err != nil {
			return nil, friendResponseFailed(err)
		}
		s.logPublish(ctx, events.FriendRequestRejectedKey, events.FriendRequestRejected{
			FriendshipID: friendship.ID,
			FromMemberID: friendship.MemberID,
			ToMemberID:   friendship.FriendMemberID,
		})
		return friendship, nil
	}

	if err := friendship.Accept(); err != nil {
		return nil, friendResponseFailed(err)
	}
	if err := s.synthesizeReciprocal(ctx, friendship); err != nil {
		return nil, friendResponseFailed(err)
	}

	s.logPublish(ctx, events.FriendRequestAcceptedKey, events.FriendRequestAccepted{
		FriendshipID: friendship.ID,
		FromMemberID: friendship.MemberID,
		ToMemberID:   friendship.FriendMemberID,
	})

	return friendship, nil
}

// synthesizeReciprocal persists the accepted forward row together with the
// system-issued reverse row in one transactional repository call, so both
// directions land ACCEPTED or neither does. This is the only path that
// bypasses the addressee check, and it is kept as its own entry point so the
// authorization boundary stays auditable. System-issued writes publish no
// events.
func (s *FriendService) synthesizeReciprocal(ctx context.Context, accepted *models.Friendship) error {
	requester, err := s.members.ResolveActiveMember(ctx, accepted.MemberID)
	if err != nil {
		return err
	}
	return s.friendships.AcceptWithReciprocal(ctx, accepted.ID, accepted.MemberID, accepted.FriendMemberID, requester.Nickname)
}

// Unfriend severs both directions of an accepted friendship in one statement;
// a missing or non-accepted row on either side is skipped. Exactly one
// terminated event is published.
func (s *FriendService) Unfriend(ctx context.Context, memberID, friendMemberID int64) error {
	if _, err := s.members.ResolveActiveMember(ctx, memberID); err != nil {
		return unfriendFailed(err)
	}

	if err := s.friendships.TerminateBothDirections(ctx, memberID, friendMemberID); err != nil {
		return unfriendFailed(err)
	}

	s.logPublish(ctx, events.FriendshipTerminatedKey, events.FriendshipTerminated{
		MemberID:       memberID,
		FriendMemberID: friendMemberID,
	})

	return nil
}

// ListIncomingRequests returns the pending requests addressed to memberID.
func (s *FriendService) ListIncomingRequests(ctx context.Context, memberID int64, limit, offset int) ([]models.Friendship, error) {
	return s.friendships.ListByMemberAndStatus(ctx, memberID, repositories.RoleAddressee, models.FriendshipPending, limit, offset)
}

// ListFriends returns memberID's accepted friendships.
func (s *FriendService) ListFriends(ctx context.Context, memberID int64, limit, offset int) ([]models.Friendship, error) {
	return s.friendships.ListByMemberAndStatus(ctx, memberID, repositories.RoleRequester, models.FriendshipAccepted, limit, offset)
}

func (s *FriendService) AreFriends(ctx context.Context, memberID, otherID int64) (bool, error) {
	return s.friendships.AreFriends(ctx, memberID, otherID)
}

func (s *FriendService) asRequestError(err error) error {
	if errors.Is(err, ErrMemberNotActive) {
		return err
	}
	return friendRequestFailed(err)
}

func (s *FriendService) logPublish(ctx context.Context, routingKey string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("warning: failed to publish %s: %v", routingKey, err)
	}
}
