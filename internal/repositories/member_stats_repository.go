package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"relation-service/internal/models"
)

// MemberStatsRepository is the narrow capability through which denormalized
// member counters are mutated. Follower/following counts are overwritten
// with recomputed values; post counts are adjusted with atomic in-database
// increments. Neither path does a read-modify-write on an in-memory value.
type MemberStatsRepository interface {
	GetStats(ctx context.Context, memberID int64) (*models.MemberStats, error)
	SetFollowerCount(ctx context.Context, memberID, count int64) error
	SetFollowingCount(ctx context.Context, memberID, count int64) error
	IncrementPostCount(ctx context.Context, memberID int64) error
	DecrementPostCount(ctx context.Context, memberID int64) error
}

type memberStatsRepository struct {
	db *sqlx.DB
}

func NewMemberStatsRepository(db *sqlx.DB) MemberStatsRepository {
	return &memberStatsRepository{db: db}
}

func (r *memberStatsRepository) GetStats(ctx context.Context, memberID int64) (*models.MemberStats, error) {
	var stats models.MemberStats
	err := r.db.GetContext(ctx, &stats, `
SELECT member_id, followers_count, following_count, post_count, updated_at
FROM member_stats WHERE member_id=$1
`, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.MemberStats{MemberID: memberID}, nil
		}
		return nil, err
	}
	return &stats, nil
}

func (r *memberStatsRepository) SetFollowerCount(ctx context.Context, memberID, count int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO member_stats (member_id, followers_count)
VALUES ($1, $2)
ON CONFLICT (member_id) DO UPDATE SET followers_count=$2, updated_at=NOW()
`, memberID, count)
	return err
}

func (r *memberStatsRepository) SetFollowingCount(ctx context.Context, memberID, count int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO member_stats (member_id, following_count)
VALUES ($1, $2)
ON CONFLICT (member_id) DO UPDATE SET following_count=$2, updated_at=NOW()
`, memberID, count)
	return err
}

func (r *memberStatsRepository) IncrementPostCount(ctx context.Context, memberID int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO member_stats (member_id, post_count)
VALUES ($1, 1)
ON CONFLICT (member_id) DO UPDATE SET post_count=member_stats.post_count+1, updated_at=NOW()
`, memberID)
	return err
}

func (r *memberStatsRepository) DecrementPostCount(ctx context.Context, memberID int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE member_stats
SET post_count=GREATEST(post_count-1, 0), updated_at=NOW()
WHERE member_id=$1
`, memberID)
	return err
}
