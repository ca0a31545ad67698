package handlers

import (
	"context"
	"errors"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"relation-service/internal/metrics"
	"relation-service/internal/models"
	"relation-service/internal/repositories"
	"relation-service/internal/services"
)

type FollowHandler struct {
	follows *services.FollowService
	friends *services.FriendService
}

func NewFollowHandler(follows *services.FollowService, friends *services.FriendService) *FollowHandler {
	return &FollowHandler{follows: follows, friends: friends}
}

type followBody struct {
	FollowingID int64 `json:"following_id" binding:"required"`
}

func (h *FollowHandler) Follow(c *gin.Context) {
	memberID := memberIDFromContext(c)
	var body followBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.IncFollow("follow", metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if memberID == nil {
		metrics.IncFollow("follow", metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	follow, err := h.follows.Follow(c.Request.Context(), *memberID, body.FollowingID)
	if err != nil {
		metrics.IncFollow("follow", metrics.StatusFailed)
		if errors.Is(err, services.ErrSelfFollow) {
			c.JSON(nethttp.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
			return
		}
		if errors.Is(err, services.ErrMemberNotActive) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "member not active"})
			return
		}
		var transition *models.InvalidTransitionError
		if errors.As(err, &transition) {
			c.JSON(nethttp.StatusConflict, gin.H{"error": transition.Error()})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to follow"})
		return
	}

	metrics.IncFollow("follow", metrics.StatusSuccess)
	c.JSON(nethttp.StatusCreated, follow)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	memberID := memberIDFromContext(c)
	followingID, err := strconv.ParseInt(c.Param("following_id"), 10, 64)
	if err != nil {
		metrics.IncFollow("unfollow", metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	if memberID == nil {
		metrics.IncFollow("unfollow", metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), *memberID, followingID); err != nil {
		metrics.IncFollow("unfollow", metrics.StatusFailed)
		if errors.Is(err, repositories.ErrFollowNotFound) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "follow not found"})
			return
		}
		var transition *models.InvalidTransitionError
		if errors.As(err, &transition) {
			c.JSON(nethttp.StatusConflict, gin.H{"error": transition.Error()})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to unfollow"})
		return
	}

	metrics.IncFollow("unfollow", metrics.StatusSuccess)
	c.Status(nethttp.StatusNoContent)
}

func (h *FollowHandler) Block(c *gin.Context) {
	memberID := memberIDFromContext(c)
	followingID, err := strconv.ParseInt(c.Param("following_id"), 10, 64)
	if err != nil {
		metrics.IncFollow("block", metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	if memberID == nil {
		metrics.IncFollow("block", metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.follows.Block(c.Request.Context(), *memberID, followingID); err != nil {
		metrics.IncFollow("block", metrics.StatusFailed)
		if errors.Is(err, repositories.ErrFollowNotFound) {
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "follow not found"})
			return
		}
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to block"})
		return
	}

	metrics.IncFollow("block", metrics.StatusSuccess)
	c.JSON(nethttp.StatusOK, gin.H{"status": "blocked"})
}

func (h *FollowHandler) ListFollowers(c *gin.Context) {
	h.list(c, h.follows.ListFollowers)
}

func (h *FollowHandler) ListFollowing(c *gin.Context) {
	h.list(c, h.follows.ListFollowing)
}

func (h *FollowHandler) list(c *gin.Context, load func(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error)) {
	memberID := memberIDFromContext(c)
	if memberID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset := pagination(c)
	follows, err := load(c.Request.Context(), *memberID, limit, offset)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to fetch follows"})
		return
	}

	c.JSON(nethttp.StatusOK, follows)
}

func (h *FollowHandler) FollowStats(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	stats, err := h.follows.GetFollowStats(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to fetch follow stats"})
		return
	}

	c.JSON(nethttp.StatusOK, stats)
}

func (h *FollowHandler) Relationship(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	otherID, err := strconv.ParseInt(c.Query("other"), 10, 64)
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid other member id"})
		return
	}

	ctx := c.Request.Context()
	areFriends, err := h.friends.AreFriends(ctx, memberID, otherID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to check friendship"})
		return
	}
	isFollowing, isFollowedBy, err := h.follows.Relation(ctx, memberID, otherID)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to check follow relation"})
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{
		"are_friends":    areFriends,
		"is_following":   isFollowing,
		"is_followed_by": isFollowedBy,
	})
}
