package models

import (
	"errors"
	"strings"
	"testing"
)

func TestFriendshipAccept(t *testing.T) {
	tests := []struct {
		name    string
		from    FriendshipStatus
		wantErr bool
	}{
		{"from pending", FriendshipPending, false},
		{"from accepted", FriendshipAccepted, true},
		{"from rejected", FriendshipRejected, true},
		{"from unfriended", FriendshipUnfriended, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Friendship{MemberID: 1, FriendMemberID: 2, Status: tt.from}
			err := f.Accept()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				var transition *InvalidTransitionError
				if !errors.As(err, &transition) {
					t.Fatalf("expected InvalidTransitionError, got %T", err)
				}
				if transition.Current != string(tt.from) {
					t.Fatalf("expected current status %s in error, got %s", tt.from, transition.Current)
				}
				if f.Status != tt.from {
					t.Fatalf("status changed on failed transition: %s", f.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Status != FriendshipAccepted {
				t.Fatalf("expected ACCEPTED, got %s", f.Status)
			}
		})
	}
}

func TestFriendshipRejectOnlyFromPending(t *testing.T) {
	f := &Friendship{Status: FriendshipPending}
	if err := f.Reject(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status != FriendshipRejected {
		t.Fatalf("expected REJECTED, got %s", f.Status)
	}

	if err := f.Reject(); err == nil {
		t.Fatal("expected error rejecting a rejected request")
	}
}

func TestFriendshipUnfriendOnlyFromAccepted(t *testing.T) {
	f := &Friendship{Status: FriendshipAccepted}
	if err := f.Unfriend(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status != FriendshipUnfriended {
		t.Fatalf("expected UNFRIENDED, got %s", f.Status)
	}

	pending := &Friendship{Status: FriendshipPending}
	if err := pending.Unfriend(); err == nil {
		t.Fatal("expected error unfriending a pending request")
	}
}

func TestFriendshipReactivateIsUnconditional(t *testing.T) {
	// Re-requesting resets any prior status, including ACCEPTED.
	for _, from := range []FriendshipStatus{FriendshipPending, FriendshipAccepted, FriendshipRejected, FriendshipUnfriended} {
		f := &Friendship{Status: from}
		f.Reactivate()
		if f.Status != FriendshipPending {
			t.Fatalf("expected PENDING after reactivation from %s, got %s", from, f.Status)
		}
	}
}

func TestFriendshipGuards(t *testing.T) {
	f := &Friendship{MemberID: 1, FriendMemberID: 2}
	if !f.IsRequestedBy(1) || f.IsRequestedBy(2) {
		t.Fatal("IsRequestedBy mismatch")
	}
	if !f.IsReceivedBy(2) || f.IsReceivedBy(1) {
		t.Fatal("IsReceivedBy mismatch")
	}
}

func TestInvalidTransitionErrorMessageIncludesCurrentStatus(t *testing.T) {
	f := &Friendship{Status: FriendshipUnfriended}
	err := f.Accept()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), string(FriendshipUnfriended)) {
		t.Fatalf("error message should report current status: %q", err.Error())
	}
}
