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
	"relation-service/internal/repositories"
	"relation-service/internal/services"
)

func setupFollowsRouter(handler *FollowHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.POST("/follows", handler.Follow)
	r.DELETE("/follows/:following_id", handler.Unfollow)
	r.GET("/members/:id/follow-stats", handler.FollowStats)
	return r
}

func newFollowHandler(repo *mocks.MockFollowRepository, resolver *mocks.MockMemberResolver) *FollowHandler {
	pub := &mocks.MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	followSvc := services.NewFollowService(repo, resolver, pub, nil)
	friendSvc := services.NewFriendService(&mocks.MockFriendshipRepository{}, resolver, pub)
	return NewFollowHandler(followSvc, friendSvc)
}

func TestFollow_EmptyBodyReturnsBadRequest(t *testing.T) {
	handler := newFollowHandler(&mocks.MockFollowRepository{}, &mocks.MockMemberResolver{})
	router := setupFollowsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/follows", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFollow_SelfFollowReturnsBadRequest(t *testing.T) {
	handler := newFollowHandler(&mocks.MockFollowRepository{}, &mocks.MockMemberResolver{})
	router := setupFollowsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/follows", strings.NewReader(`{"following_id":9}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Member-ID", "9")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFollow_CreatedReturnsFollow(t *testing.T) {
	resolver := &mocks.MockMemberResolver{}
	resolver.On("ResolveActiveMember", mock.Anything, mock.Anything).Return(&models.Member{ID: 2, Status: models.MemberActive}, nil)

	repo := &mocks.MockFollowRepository{}
	repo.On("CreateOrReactivate", mock.Anything, int64(1), int64(2)).Return(&models.Follow{
		ID: 5, FollowerID: 1, FollowingID: 2, Status: models.FollowActive,
	}, nil)

	handler := newFollowHandler(repo, resolver)
	router := setupFollowsRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/follows", strings.NewReader(`{"following_id":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Member-ID", "1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"ACTIVE"`) {
		t.Fatalf("expected ACTIVE follow in response, got %s", rec.Body.String())
	}
}

func TestUnfollow_MissingRowReturnsNotFound(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	repo.On("GetByPair", mock.Anything, int64(1), int64(2)).Return(nil, repositories.ErrFollowNotFound)

	handler := newFollowHandler(repo, &mocks.MockMemberResolver{})
	router := setupFollowsRouter(handler)

	req := httptest.NewRequest(http.MethodDelete, "/follows/2", nil)
	req.Header.Set("X-Member-ID", "1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestFollowStats_ReturnsCounts(t *testing.T) {
	repo := &mocks.MockFollowRepository{}
	repo.On("CountFollowers", mock.Anything, int64(2)).Return(int64(1), nil)
	repo.On("CountFollowing", mock.Anything, int64(2)).Return(int64(0), nil)

	handler := newFollowHandler(repo, &mocks.MockMemberResolver{})
	router := setupFollowsRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/members/2/follow-stats", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"followers_count":1`) || !strings.Contains(body, `"following_count":0`) {
		t.Fatalf("unexpected stats body: %s", body)
	}
}
