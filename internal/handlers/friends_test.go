package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"relation-service/internal/mocks"
	"relation-service/internal/models"
	"relation-service/internal/services"
)

func setupFriendsRouter(handler *FriendHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.POST("/friends/request", handler.SendRequest)
	r.POST("/friends/requests/:id/accept", handler.AcceptRequest)
	r.DELETE("/friends/:friend_id", handler.Unfriend)
	return r
}

func newFriendHandler(repo *mocks.MockFriendshipRepository, resolver *mocks.MockMemberResolver) *FriendHandler {
	pub := &mocks.MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	svc := services.NewFriendService(repo, resolver, pub)
	return NewFriendHandler(svc, nil)
}

func TestSendRequest_EmptyBodyReturnsBadRequest(t *testing.T) {
	handler := newFriendHandler(&mocks.MockFriendshipRepository{}, &mocks.MockMemberResolver{})
	router := setupFriendsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/friends/request", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSendRequest_SelfRequestReturnsBadRequest(t *testing.T) {
	repo := &mocks.MockFriendshipRepository{}
	handler := newFriendHandler(repo, &mocks.MockMemberResolver{})
	router := setupFriendsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/friends/request", strings.NewReader(`{"to_member_id":5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Member-ID", "5")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	repo.AssertNotCalled(t, "CreateOrReactivate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendRequest_InactiveTargetReturnsNotFound(t *testing.T) {
	resolver := &mocks.MockMemberResolver{}
	resolver.On("ResolveActiveMember", mock.Anything, int64(1)).Return(&models.Member{ID: 1, Status: models.MemberActive}, nil)
	resolver.On("ResolveActiveMember", mock.Anything, int64(2)).Return(nil, services.ErrMemberNotActive)

	handler := newFriendHandler(&mocks.MockFriendshipRepository{}, resolver)
	router := setupFriendsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/friends/request", strings.NewReader(`{"to_member_id":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Member-ID", "1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSendRequest_CreatedReturnsFriendship(t *testing.T) {
	resolver := &mocks.MockMemberResolver{}
	resolver.On("ResolveActiveMember", mock.Anything, mock.Anything).Return(&models.Member{ID: 2, Nickname: "sushi-fan", Status: models.MemberActive}, nil)

	repo := &mocks.MockFriendshipRepository{}
	repo.On("CreateOrReactivate", mock.Anything, int64(1), int64(2), "sushi-fan").Return(&models.Friendship{
		ID: 10, MemberID: 1, FriendMemberID: 2, FriendNickname: "sushi-fan", Status: models.FriendshipPending,
	}, nil)

	handler := newFriendHandler(repo, resolver)
	router := setupFriendsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/friends/request", strings.NewReader(`{"to_member_id":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Member-ID", "1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"PENDING"`) {
		t.Fatalf("expected PENDING friendship in response, got %s", rec.Body.String())
	}
}

func TestAcceptRequest_NonAddresseeReturnsForbidden(t *testing.T) {
	resolver := &mocks.MockMemberResolver{}
	resolver.On("ResolveActiveMember", mock.Anything, mock.Anything).Return(&models.Member{ID: 3, Status: models.MemberActive}, nil)

	repo := &mocks.MockFriendshipRepository{}
	repo.On("GetByID", mock.Anything, int64(10)).Return(&models.Friendship{
		ID: 10, MemberID: 1, FriendMemberID: 2, Status: models.FriendshipPending,
	}, nil)

	handler := newFriendHandler(repo, resolver)
	router := setupFriendsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/10/accept", nil)
	req.Header.Set("X-Member-ID", "3")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnfriend_SelfReturnsBadRequest(t *testing.T) {
	handler := newFriendHandler(&mocks.MockFriendshipRepository{}, &mocks.MockMemberResolver{})
	router := setupFriendsRouter(handler)

	req := httptest.NewRequest(http.MethodDelete, "/friends/4", nil)
	req.Header.Set("X-Member-ID", "4")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
