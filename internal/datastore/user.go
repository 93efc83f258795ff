package datastore

import (
	"context"
	"time"

	"coinhunt/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	return err
}

// UpsertUser inserts the user when unseen and returns the stored row either way.
func UpsertUser(ctx context.Context, db *bun.DB, user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
	}

	_, err := db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return GetUserByID(ctx, db, user.ID)
}

func GetUserByID(ctx context.Context, db *bun.DB, id string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func GetUsersByIDs(ctx context.Context, db *bun.DB, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []*models.User
	err := db.NewSelect().Model(&users).Where("id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return users, nil
}
