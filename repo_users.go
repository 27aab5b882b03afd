package conduit

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the persistence surface for user records. It satisfies
// UserStore, which is all the auth interceptor needs.
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	UpdateProfile(ctx context.Context, username string, update *UpdateUser) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users     = (*users)(nil)
	_ UserStore = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return a.CreateTx(ctx, tx, user)
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	return a.getByColumn(ctx, tx, "username", username)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByColumn(ctx, tx, "email", email)
}

func (a *users) getByColumn(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to fetch user record")
	}

	return record, nil
}

// UpdateProfile applies the non-nil fields of update to the user identified
// by username and returns the refreshed record. The update and the re-read
// run in one transaction so a concurrent rename cannot slip between them.
func (a *users) UpdateProfile(ctx context.Context, username string, update *UpdateUser) (*User, error) {
	var record *User

	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().
			Model((*User)(nil)).
			Where("?TableAlias.username = ?", username).
			Set("updated_at = current_timestamp")

		next := username
		if !update.Username.IsZero() {
			next = update.Username.String()
			q.Set("username = ?", next)
		}
		if !update.Email.IsZero() {
			q.Set("email = ?", update.Email.String())
		}
		if !update.Password.IsZero() {
			q.Set("password_digest = ?", update.Password.String())
		}
		if update.Bio != nil {
			q.Set("bio = ?", *update.Bio)
		}
		if update.Image != nil {
			q.Set("image = ?", *update.Image)
		}

		res, err := q.Exec(ctx)
		if err != nil {
			return err
		}

		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return ErrIdentityNotFound
		}

		record, err = a.GetByUsernameTx(ctx, tx, next)
		return err
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}
