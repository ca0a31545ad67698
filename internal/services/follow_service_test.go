package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relation-service/internal/events"
	"relation-service/internal/mocks"
	"relation-service/internal/models"
	"relation-service/internal/services"
)

func TestFollow_SelfFollowRejected(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	svc := services.NewFollowService(repo, activeMembers(1), &mocks.MockPublisher{}, nil)

	_, err := svc.Follow(context.Background(), 1, 1)
	require.ErrorIs(t, err, services.ErrSelfFollow)
	repo.AssertNotCalled(t, "CreateOrReactivate", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollow_CreatesActiveAndPublishes(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	pub := &mocks.MockPublisher{}
	svc := services.NewFollowService(repo, activeMembers(1, 2), pub, nil)

	active := &models.Follow{ID: 5, FollowerID: 1, FollowingID: 2, Status: models.FollowActive}
	repo.On("CreateOrReactivate", mock.Anything, int64(1), int64(2)).Return(active, nil)
	pub.On("Publish", mock.Anything, events.FollowChangedKey, events.FollowChanged{
		FollowerID: 1, FollowingID: 2, Status: string(models.FollowActive),
	}).Return(nil)

	follow, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, models.FollowActive, follow.Status)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestFollow_ReusesExistingRow(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	pub := &mocks.MockPublisher{}
	svc := services.NewFollowService(repo, activeMembers(1, 2), pub, nil)

	row := &models.Follow{ID: 5, FollowerID: 1, FollowingID: 2, Status: models.FollowActive}
	repo.On("CreateOrReactivate", mock.Anything, int64(1), int64(2)).Return(row, nil).Twice()
	pub.On("Publish", mock.Anything, events.FollowChangedKey, mock.Anything).Return(nil).Twice()

	first, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	second, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, models.FollowActive, second.Status)
}

func TestFollow_BlockedRowStaysBlocked(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	pub := &mocks.MockPublisher{}
	svc := services.NewFollowService(repo, activeMembers(1, 2), pub, nil)

	blocked := &models.Follow{ID: 5, FollowerID: 1, FollowingID: 2, Status: models.FollowBlocked}
	repo.On("CreateOrReactivate", mock.Anything, int64(1), int64(2)).Return(blocked, nil)

	_, err := svc.Follow(context.Background(), 1, 2)
	require.True(t, services.IsOperationError(err, services.OpFollow))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollow_InactiveTargetSurfacesVerbatim(t *testing.T) {
	svc := services.NewFollowService(&mocks.MockFollowRepository{}, activeMembers(1), &mocks.MockPublisher{}, nil)

	_, err := svc.Follow(context.Background(), 1, 2)
	require.ErrorIs(t, err, services.ErrMemberNotActive)
}

func TestUnfollow_ActiveToUnfollowed(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	pub := &mocks.MockPublisher{}
	svc := services.NewFollowService(repo, activeMembers(1, 2), pub, nil)

	active := &models.Follow{ID: 5, FollowerID: 1, FollowingID: 2, Status: models.FollowActive}
	repo.On("GetByPair", mock.Anything, int64(1), int64(2)).Return(active, nil)
	repo.On("UpdateStatus", mock.Anything, int64(5), models.FollowUnfollowed).Return(nil)
	pub.On("Publish", mock.Anything, events.FollowChangedKey, events.FollowChanged{
		FollowerID: 1, FollowingID: 2, Status: string(models.FollowUnfollowed),
	}).Return(nil)

	require.NoError(t, svc.Unfollow(context.Background(), 1, 2))
	repo.AssertExpectations(t)
}

func TestUnfollow_NonActiveIsInvalidTransition(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	svc := services.NewFollowService(repo, activeMembers(1, 2), &mocks.MockPublisher{}, nil)

	unfollowed := &models.Follow{ID: 5, FollowerID: 1, FollowingID: 2, Status: models.FollowUnfollowed}
	repo.On("GetByPair", mock.Anything, int64(1), int64(2)).Return(unfollowed, nil)

	err := svc.Unfollow(context.Background(), 1, 2)
	var transition *models.InvalidTransitionError
	require.True(t, errors.As(err, &transition))
	require.Equal(t, string(models.FollowUnfollowed), transition.Current)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestBlock_FromAnyState(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	pub := &mocks.MockPublisher{}
	svc := services.NewFollowService(repo, activeMembers(1, 2), pub, nil)

	unfollowed := &models.Follow{ID: 5, FollowerID: 1, FollowingID: 2, Status: models.FollowUnfollowed}
	repo.On("GetByPair", mock.Anything, int64(1), int64(2)).Return(unfollowed, nil)
	repo.On("UpdateStatus", mock.Anything, int64(5), models.FollowBlocked).Return(nil)
	pub.On("Publish", mock.Anything, events.FollowChangedKey, mock.Anything).Return(nil)

	require.NoError(t, svc.Block(context.Background(), 1, 2))
	repo.AssertExpectations(t)
}

func TestGetFollowStats_CountsFromSourceOfTruth(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	svc := services.NewFollowService(repo, activeMembers(2), &mocks.MockPublisher{}, nil)

	repo.On("CountFollowers", mock.Anything, int64(2)).Return(int64(1), nil)
	repo.On("CountFollowing", mock.Anything, int64(2)).Return(int64(0), nil)

	stats, err := svc.GetFollowStats(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.FollowersCount)
	require.Equal(t, int64(0), stats.FollowingCount)
}
