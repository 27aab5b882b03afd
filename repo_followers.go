package conduit

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Followers owns the directional follow edges between usernames.
type Followers interface {
	Follow(ctx context.Context, follower, followed string) error
	Unfollow(ctx context.Context, follower, followed string) error
	IsFollowing(ctx context.Context, follower, followed string) (bool, error)
}

// The edge table has a composite natural key, so this repository is written
// directly on bun instead of the uuid-keyed repository base.
type followers struct {
	db *bun.DB
}

var _ Followers = (*followers)(nil)

func NewFollowersRepository(db *bun.DB) Followers {
	return &followers{db: db}
}

// Follow records that follower follows followed. Following the same user
// twice fails with a unique violation; callers map it to a validation error.
func (f *followers) Follow(ctx context.Context, follower, followed string) error {
	edge := &Follow{
		Follower: follower,
		Followed: followed,
	}

	if _, err := f.db.NewInsert().Model(edge).Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store follow edge")
	}

	return nil
}

// Unfollow removes the edge. Removing an edge that does not exist is not
// an error.
func (f *followers) Unfollow(ctx context.Context, follower, followed string) error {
	_, err := f.db.NewDelete().
		Model((*Follow)(nil)).
		Where("?TableAlias.follower = ?", follower).
		Where("?TableAlias.followed = ?", followed).
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete follow edge")
	}

	return nil
}

// IsFollowing reports whether follower follows followed.
func (f *followers) IsFollowing(ctx context.Context, follower, followed string) (bool, error) {
	exists, err := f.db.NewSelect().
		Model((*Follow)(nil)).
		Where("?TableAlias.follower = ?", follower).
		Where("?TableAlias.followed = ?", followed).
		Exists(ctx)

	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query follow edge")
	}

	return exists, nil
}
