package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relation-service/internal/models"
	"relation-service/internal/rabbitmq"
	"relation-service/internal/repositories"
	"relation-service/internal/services"
)

// MockMemberResolver mocks the member API capability.
type MockMemberResolver struct {
	mock.Mock
}

func (m *MockMemberResolver) ResolveActiveMember(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	var member *models.Member
	if val := args.Get(0); val != nil {
		member = val.(*models.Member)
	}
	return member, args.Error(1)
}

var _ services.MemberResolver = (*MockMemberResolver)(nil)

// MockFriendshipRepository mocks FriendshipRepository behavior for services and handlers.
type MockFriendshipRepository struct {
	mock.Mock
}

func (m *MockFriendshipRepository) CreateOrReactivate(ctx context.Context, memberID, friendMemberID int64, friendNickname string) (*models.Friendship, error) {
	args := m.Called(ctx, memberID, friendMemberID, friendNickname)
	var friendship *models.Friendship
	if val := args.Get(0); val != nil {
		friendship = val.(*models.Friendship)
	}
	return friendship, args.Error(1)
}

func (m *MockFriendshipRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	args := m.Called(ctx, id)
	var friendship *models.Friendship
	if val := args.Get(0); val != nil {
		friendship = val.(*models.Friendship)
	}
	return friendship, args.Error(1)
}

func (m *MockFriendshipRepository) ListByMemberAndStatus(ctx context.Context, memberID int64, role repositories.FriendshipRole, status models.FriendshipStatus, limit, offset int) ([]models.Friendship, error) {
	args := m.Called(ctx, memberID, role, status, limit, offset)
	var friendships []models.Friendship
	if val := args.Get(0); val != nil {
		friendships = val.([]models.Friendship)
	}
	return friendships, args.Error(1)
}

func (m *MockFriendshipRepository) CountByMemberAndStatus(ctx context.Context, memberID int64, role repositories.FriendshipRole, status models.FriendshipStatus) (int64, error) {
	args := m.Called(ctx, memberID, role, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFriendshipRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFriendshipRepository) AcceptWithReciprocal(ctx context.Context, forwardID, memberID, friendMemberID int64, requesterNickname string) error {
	args := m.Called(ctx, forwardID, memberID, friendMemberID, requesterNickname)
	return args.Error(0)
}

func (m *MockFriendshipRepository) TerminateBothDirections(ctx context.Context, memberID, friendMemberID int64) error {
	args := m.Called(ctx, memberID, friendMemberID)
	return args.Error(0)
}

func (m *MockFriendshipRepository) AreFriends(ctx context.Context, memberID, otherID int64) (bool, error) {
	args := m.Called(ctx, memberID, otherID)
	return args.Bool(0), args.Error(1)
}

var _ repositories.FriendshipRepository = (*MockFriendshipRepository)(nil)

// MockFollowRepository mocks FollowRepository behavior.
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) CreateOrReactivate(ctx context.Context, followerID, followingID int64) (*models.Follow, error) {
	args := m.Called(ctx, followerID, followingID)
	var follow *models.Follow
	if val := args.Get(0); val != nil {
		follow = val.(*models.Follow)
	}
	return follow, args.Error(1)
}

func (m *MockFollowRepository) GetByPair(ctx context.Context, followerID, followingID int64) (*models.Follow, error) {
	args := m.Called(ctx, followerID, followingID)
	var follow *models.Follow
	if val := args.Get(0); val != nil {
		follow = val.(*models.Follow)
	}
	return follow, args.Error(1)
}

func (m *MockFollowRepository) ListFollowers(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error) {
	args := m.Called(ctx, memberID, limit, offset)
	var follows []models.Follow
	if val := args.Get(0); val != nil {
		follows = val.([]models.Follow)
	}
	return follows, args.Error(1)
}

func (m *MockFollowRepository) ListFollowing(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error) {
	args := m.Called(ctx, memberID, limit, offset)
	var follows []models.Follow
	if val := args.Get(0); val != nil {
		follows = val.([]models.Follow)
	}
	return follows, args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, memberID int64) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, memberID int64) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) UpdateStatus(ctx context.Context, id int64, status models.FollowStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

var _ repositories.FollowRepository = (*MockFollowRepository)(nil)

// MockMemberStatsRepository mocks the counter capability.
type MockMemberStatsRepository struct {
	mock.Mock
}

func (m *MockMemberStatsRepository) GetStats(ctx context.Context, memberID int64) (*models.MemberStats, error) {
	args := m.Called(ctx, memberID)
	var stats *models.MemberStats
	if val := args.Get(0); val != nil {
		stats = val.(*models.MemberStats)
	}
	return stats, args.Error(1)
}

func (m *MockMemberStatsRepository) SetFollowerCount(ctx context.Context, memberID, count int64) error {
	args := m.Called(ctx, memberID, count)
	return args.Error(0)
}

func (m *MockMemberStatsRepository) SetFollowingCount(ctx context.Context, memberID, count int64) error {
	args := m.Called(ctx, memberID, count)
	return args.Error(0)
}

func (m *MockMemberStatsRepository) IncrementPostCount(ctx context.Context, memberID int64) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

func (m *MockMemberStatsRepository) DecrementPostCount(ctx context.Context, memberID int64) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

var _ repositories.MemberStatsRepository = (*MockMemberStatsRepository)(nil)

// MockPublisher mocks RabbitMQ publisher behavior.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ rabbitmq.Publisher = (*MockPublisher)(nil)
