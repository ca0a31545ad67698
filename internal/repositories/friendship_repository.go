package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"relation-service/internal/models"
)

var ErrFriendshipNotFound = errors.New("friendship not found")

// FriendshipRole selects which side of the edge a count or listing is about.
type FriendshipRole string

const (
	RoleRequester FriendshipRole = "member_id"
	RoleAddressee FriendshipRole = "friend_member_id"
)

type FriendshipRepository interface {
	// CreateOrReactivate inserts a PENDING row for the ordered pair, or
	// force-resets the existing row for that pair back to PENDING. The
	// per-pair unique constraint makes concurrent calls serialize on the
	// row instead of duplicating it.
	CreateOrReactivate(ctx context.Context, memberID, friendMemberID int64, friendNickname string) (*models.Friendship, error)
	GetByID(ctx context.Context, id int64) (*models.Friendship, error)
	ListByMemberAndStatus(ctx context.Context, memberID int64, role FriendshipRole, status models.FriendshipStatus, limit, offset int) ([]models.Friendship, error)
	CountByMemberAndStatus(ctx context.Context, memberID int64, role FriendshipRole, status models.FriendshipStatus) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error
	// AcceptWithReciprocal flips the forward row to ACCEPTED and upserts the
	// reverse-direction row as ACCEPTED in a single transaction, so a store
	// failure can never leave one direction accepted without the other.
	AcceptWithReciprocal(ctx context.Context, forwardID, memberID, friendMemberID int64, requesterNickname string) error
	// TerminateBothDirections marks every ACCEPTED row of the unordered pair
	// UNFRIENDED in one statement. Missing or non-accepted directions are
	// skipped, not errors.
	TerminateBothDirections(ctx context.Context, memberID, friendMemberID int64) error
	AreFriends(ctx context.Context, memberID, otherID int64) (bool, error)
}

type friendshipRepository struct {
	db *sqlx.DB
}

func NewFriendshipRepository(db *sqlx.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) CreateOrReactivate(ctx context.Context, memberID, friendMemberID int64, friendNickname string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO friendships (member_id, friend_member_id, friend_nickname, status)
VALUES ($1, $2, $3, 'PENDING')
ON CONFLICT (member_id, friend_member_id)
DO UPDATE SET status='PENDING', friend_nickname=$3, updated_at=NOW()
RETURNING id, member_id, friend_member_id, friend_nickname, status, created_at, updated_at
`, memberID, friendMemberID, friendNickname).StructScan(&friendship)
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (r *friendshipRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.GetContext(ctx, &friendship, `
SELECT id, member_id, friend_member_id, friend_nickname, status, created_at, updated_at
FROM friendships WHERE id=$1
`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *friendshipRepository) ListByMemberAndStatus(ctx context.Context, memberID int64, role FriendshipRole, status models.FriendshipStatus, limit, offset int) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.SelectContext(ctx, &friendships, `
SELECT id, member_id, friend_member_id, friend_nickname, status, created_at, updated_at
FROM friendships
WHERE `+string(role)+`=$1 AND status=$2
ORDER BY updated_at DESC
LIMIT $3 OFFSET $4
`, memberID, status, limit, offset)
	return friendships, err
}

func (r *friendshipRepository) CountByMemberAndStatus(ctx context.Context, memberID int64, role FriendshipRole, status models.FriendshipStatus) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
SELECT COUNT(*) FROM friendships WHERE `+string(role)+`=$1 AND status=$2
`, memberID, status)
	return count, err
}

func (r *friendshipRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE friendships SET status=$2, updated_at=NOW() WHERE id=$1
`, id, status)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

func (r *friendshipRepository) AcceptWithReciprocal(ctx context.Context, forwardID, memberID, friendMemberID int64, requesterNickname string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE friendships SET status='ACCEPTED', updated_at=NOW() WHERE id=$1
`, forwardID)
		if err != nil {
			return err
		}
		count, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrFriendshipNotFound
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO friendships (member_id, friend_member_id, friend_nickname, status)
VALUES ($1, $2, $3, 'ACCEPTED')
ON CONFLICT (member_id, friend_member_id)
DO UPDATE SET status='ACCEPTED', friend_nickname=$3, updated_at=NOW()
`, friendMemberID, memberID, requesterNickname)
		return err
	})
}

func (r *friendshipRepository) TerminateBothDirections(ctx context.Context, memberID, friendMemberID int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE friendships SET status='UNFRIENDED', updated_at=NOW()
WHERE ((member_id=$1 AND friend_member_id=$2) OR (member_id=$2 AND friend_member_id=$1))
AND status='ACCEPTED'
`, memberID, friendMemberID)
	return err
}

func (r *friendshipRepository) AreFriends(ctx context.Context, memberID, otherID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(
SELECT 1 FROM friendships WHERE member_id=$1 AND friend_member_id=$2 AND status='ACCEPTED'
)
`, memberID, otherID)
	return exists, err
}

func (r *friendshipRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
