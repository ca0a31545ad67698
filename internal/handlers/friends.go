package handlers

import (
	"context"
	"errors"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"relation-service/internal/metrics"
	"relation-service/internal/repositories"
	"relation-service/internal/services"
	"relation-service/internal/telemetry"
)

type FriendHandler struct {
	friends *services.FriendService
	audit   *telemetry.AuditEmitter
}

func NewFriendHandler(friends *services.FriendService, audit *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{friends: friends, audit: audit}
}

type sendRequestBody struct {
	ToMemberID int64 `json:"to_member_id" binding:"required"`
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	requestID := requestIDFromHeader(c)
	memberID := memberIDFromContext(c)
	var body sendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.emitAudit(c.Request.Context(), "ERROR", "invalid request payload", requestID, memberID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if memberID == nil {
		metrics.IncFriendRequest(metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	fromMemberID := *memberID

	if body.ToMemberID == fromMemberID {
		metrics.IncFriendRequest(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "cannot send request to yourself"})
		return
	}

	ctx := c.Request.Context()
	friendship, err := h.friends.SendFriendRequest(ctx, fromMemberID, body.ToMemberID)
	if err != nil {
		metrics.IncFriendRequest(metrics.StatusFailed)
		if errors.Is(err, services.ErrMemberNotActive) {
			h.emitAudit(ctx, "ERROR", "target member not active", requestID, memberID)
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "member not active"})
			return
		}
		h.emitAudit(ctx, "ERROR", "internal error", requestID, memberID)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to send friend request"})
		return
	}

	h.emitAudit(ctx, "INFO", "Friend request sent to '"+strconv.FormatInt(body.ToMemberID, 10)+"'", requestID, memberID)
	metrics.IncFriendRequest(metrics.StatusSuccess)
	c.JSON(nethttp.StatusCreated, friendship)
}

func (h *FriendHandler) ListIncoming(c *gin.Context) {
	memberID := memberIDFromContext(c)
	if memberID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset := pagination(c)
	requests, err := h.friends.ListIncomingRequests(c.Request.Context(), *memberID, limit, offset)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to load requests"})
		return
	}

	c.JSON(nethttp.StatusOK, requests)
}

func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	h.handleDecision(c, true, "accepted", "accept")
}

func (h *FriendHandler) RejectRequest(c *gin.Context) {
	h.handleDecision(c, false, "rejected", "reject")
}

func (h *FriendHandler) handleDecision(c *gin.Context, accept bool, status, verb string) {
	idStr := c.Param("id")
	friendshipID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		metrics.IncFriendResponse(verb, metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	requestID := requestIDFromHeader(c)
	memberID := memberIDFromContext(c)
	if memberID == nil {
		metrics.IncFriendResponse(verb, metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.friends.RespondToFriendRequest(ctx, friendshipID, *memberID, accept); err != nil {
		metrics.IncFriendResponse(verb, metrics.StatusFailed)
		if errors.Is(err, repositories.ErrFriendshipNotFound) {
			h.emitAudit(ctx, "ERROR", "friend request not found", requestID, memberID)
			c.JSON(nethttp.StatusNotFound, gin.H{"error": "request not found"})
			return
		}
		if errors.Is(err, services.ErrNotAuthorized) {
			h.emitAudit(ctx, "ERROR", "not allowed to "+verb+" this request", requestID, memberID)
			c.JSON(nethttp.StatusForbidden, gin.H{"error": "not allowed to " + verb + " this request"})
			return
		}
		h.emitAudit(ctx, "ERROR", "internal error", requestID, memberID)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to update request"})
		return
	}

	h.emitAudit(ctx, "INFO", "Friend request "+status, requestID, memberID)
	metrics.IncFriendResponse(verb, metrics.StatusSuccess)
	c.JSON(nethttp.StatusOK, gin.H{"status": status})
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	memberID := memberIDFromContext(c)
	if memberID == nil {
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset := pagination(c)
	friendships, err := h.friends.ListFriends(c.Request.Context(), *memberID, limit, offset)
	if err != nil {
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to fetch friends"})
		return
	}

	c.JSON(nethttp.StatusOK, friendships)
}

func (h *FriendHandler) Unfriend(c *gin.Context) {
	friendIDStr := c.Param("friend_id")
	friendMemberID, err := strconv.ParseInt(friendIDStr, 10, 64)
	if err != nil {
		metrics.IncUnfriend(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid friend id"})
		return
	}

	requestID := requestIDFromHeader(c)
	memberID := memberIDFromContext(c)
	if memberID == nil {
		metrics.IncUnfriend(metrics.StatusFailed)
		c.JSON(nethttp.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if friendMemberID == *memberID {
		metrics.IncUnfriend(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "cannot unfriend yourself"})
		return
	}

	ctx := c.Request.Context()
	if err := h.friends.Unfriend(ctx, *memberID, friendMemberID); err != nil {
		h.emitAudit(ctx, "ERROR", "internal error", requestID, memberID)
		metrics.IncUnfriend(metrics.StatusFailed)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "failed to unfriend"})
		return
	}

	h.emitAudit(ctx, "INFO", "Unfriended '"+friendIDStr+"'", requestID, memberID)
	metrics.IncUnfriend(metrics.StatusSuccess)
	c.Status(nethttp.StatusNoContent)
}

func (h *FriendHandler) emitAudit(ctx context.Context, level, text, requestID string, memberID *int64) {
	if h.audit == nil {
		return
	}
	h.audit.EmitAudit(ctx, level, text, requestID, memberID)
}
