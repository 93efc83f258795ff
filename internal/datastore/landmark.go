package datastore

import (
	"context"
	"time"

	"coinhunt/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableLandmark(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Landmark)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Landmark)(nil)).Index("index_landmark_active").IfNotExists().Column("active").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertLandmark(ctx context.Context, db *bun.DB, landmark *models.Landmark) error {
	_, err := db.NewInsert().Model(landmark).Exec(ctx)
	return err
}

func GetLandmark(ctx context.Context, db *bun.DB, id string) (*models.Landmark, error) {
	var landmark models.Landmark
	err := db.NewSelect().Model(&landmark).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &landmark, nil
}

func GetLandmarks(ctx context.Context, db *bun.DB, activeOnly bool, limit, offset int) ([]*models.Landmark, error) {
	var landmarks []*models.Landmark
	q := db.NewSelect().Model(&landmarks).Order("created_at ASC")
	if activeOnly {
		q = q.Where("active = true")
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}

	return landmarks, nil
}

func UpdateLandmark(ctx context.Context, db *bun.DB, landmark *models.Landmark) (*models.Landmark, error) {
	landmark.UpdatedAt = time.Now()
	_, err := db.NewUpdate().Model(landmark).WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}

	return landmark, nil
}

func DeleteLandmark(ctx context.Context, db *bun.DB, id string) (int64, error) {
	res, err := db.NewDelete().Model((*models.Landmark)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
