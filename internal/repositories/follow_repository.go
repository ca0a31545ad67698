package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"relation-service/internal/models"
)

var ErrFollowNotFound = errors.New("follow not found")

type FollowRepository interface {
	// CreateOrReactivate inserts an ACTIVE row for the ordered pair, or
	// resets the existing non-blocked row back to ACTIVE. Blocked rows are
	// left untouched and returned as-is so the caller can reject the
	// transition.
	CreateOrReactivate(ctx context.Context, followerID, followingID int64) (*models.Follow, error)
	GetByPair(ctx context.Context, followerID, followingID int64) (*models.Follow, error)
	ListFollowers(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error)
	ListFollowing(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error)
	CountFollowers(ctx context.Context, memberID int64) (int64, error)
	CountFollowing(ctx context.Context, memberID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.FollowStatus) error
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
}

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) CreateOrReactivate(ctx context.Context, followerID, followingID int64) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO follows (follower_id, following_id, status)
VALUES ($1, $2, 'ACTIVE')
ON CONFLICT (follower_id, following_id)
DO UPDATE SET status='ACTIVE', updated_at=NOW()
WHERE follows.status <> 'BLOCKED'
RETURNING id, follower_id, following_id, status, created_at, updated_at
`, followerID, followingID).StructScan(&follow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Blocked row: the conditional upsert matched nothing.
			return r.GetByPair(ctx, followerID, followingID)
		}
		return nil, err
	}
	return &follow, nil
}

func (r *followRepository) GetByPair(ctx context.Context, followerID, followingID int64) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.GetContext(ctx, &follow, `
SELECT id, follower_id, following_id, status, created_at, updated_at
FROM follows WHERE follower_id=$1 AND following_id=$2
`, followerID, followingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFollowNotFound
		}
		return nil, err
	}
	return &follow, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.SelectContext(ctx, &follows, `
SELECT id, follower_id, following_id, status, created_at, updated_at
FROM follows
WHERE following_id=$1 AND status='ACTIVE'
ORDER BY updated_at DESC
LIMIT $2 OFFSET $3
`, memberID, limit, offset)
	return follows, err
}

func (r *followRepository) ListFollowing(ctx context.Context, memberID int64, limit, offset int) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.SelectContext(ctx, &follows, `
SELECT id, follower_id, following_id, status, created_at, updated_at
FROM follows
WHERE follower_id=$1 AND status='ACTIVE'
ORDER BY updated_at DESC
LIMIT $2 OFFSET $3
`, memberID, limit, offset)
	return follows, err
}

func (r *followRepository) CountFollowers(ctx context.Context, memberID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
SELECT COUNT(*) FROM follows WHERE following_id=$1 AND status='ACTIVE'
`, memberID)
	return count, err
}

func (r *followRepository) CountFollowing(ctx context.Context, memberID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
SELECT COUNT(*) FROM follows WHERE follower_id=$1 AND status='ACTIVE'
`, memberID)
	return count, err
}

func (r *followRepository) UpdateStatus(ctx context.Context, id int64, status models.FollowStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE follows SET status=$2, updated_at=NOW() WHERE id=$1
`, id, status)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFollowNotFound
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(
SELECT 1 FROM follows WHERE follower_id=$1 AND following_id=$2 AND status='ACTIVE'
)
`, followerID, followingID)
	return exists, err
}
