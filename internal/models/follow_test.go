package models

import (
	"errors"
	"testing"
)

func TestFollowUnfollowOnlyFromActive(t *testing.T) {
	f := &Follow{FollowerID: 1, FollowingID: 2, Status: FollowActive}
	if err := f.Unfollow(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status != FollowUnfollowed {
		t.Fatalf("expected UNFOLLOWED, got %s", f.Status)
	}

	err := f.Unfollow()
	var transition *InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transition.Current != string(FollowUnfollowed) {
		t.Fatalf("expected current status in error, got %s", transition.Current)
	}
}

func TestFollowBlockFromAnyState(t *testing.T) {
	for _, from := range []FollowStatus{FollowActive, FollowUnfollowed, FollowBlocked} {
		f := &Follow{Status: from}
		f.Block()
		if f.Status != FollowBlocked {
			t.Fatalf("expected BLOCKED after block from %s, got %s", from, f.Status)
		}
	}
}

func TestFollowReactivate(t *testing.T) {
	f := &Follow{Status: FollowUnfollowed}
	if err := f.Reactivate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status != FollowActive {
		t.Fatalf("expected ACTIVE, got %s", f.Status)
	}

	blocked := &Follow{Status: FollowBlocked}
	if err := blocked.Reactivate(); err == nil {
		t.Fatal("expected error reactivating a blocked follow")
	}
}

func TestFollowIsOwnedBy(t *testing.T) {
	f := &Follow{FollowerID: 1, FollowingID: 2}
	if !f.IsOwnedBy(1) || f.IsOwnedBy(2) {
		t.Fatal("IsOwnedBy mismatch")
	}
}
