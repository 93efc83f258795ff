package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coinhunt/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrSupplyExhausted aborts a claim transaction when the conditional
// decrement finds no coin left to take.
var ErrSupplyExhausted = errors.New("landmark coin supply exhausted")

func CreateTableCoinCollection(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.CoinCollection)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	// one collection per user, enforced by the store
	_, err = db.NewCreateIndex().Model((*models.CoinCollection)(nil)).Index("index_coin_collection_user_id").IfNotExists().Unique().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.CollectedLandmark)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.CollectedLandmark)(nil)).Index("index_collected_landmark_unique").IfNotExists().Unique().Column("collection_id", "landmark_id").Exec(ctx)
	if err != nil {
		return err
	}

	// cooldown lookups scan by landmark and claim time
	_, err = db.NewCreateIndex().Model((*models.CollectedLandmark)(nil)).Index("index_collected_landmark_claims").IfNotExists().Column("landmark_id", "collected_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// ledger entries always come back in claim order
func orderedLandmarks(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("collected_at ASC")
}

func GetCollectionByUser(ctx context.Context, db *bun.DB, userID string) (*models.CoinCollection, error) {
	var collection models.CoinCollection
	err := db.NewSelect().
		Model(&collection).
		Relation("Landmarks", orderedLandmarks).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &collection, nil
}

func GetCollectionByID(ctx context.Context, db *bun.DB, id string) (*models.CoinCollection, error) {
	var collection models.CoinCollection
	err := db.NewSelect().
		Model(&collection).
		Relation("Landmarks", orderedLandmarks).
		Relation("Landmarks.Landmark").
		Where("coin_collection.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &collection, nil
}

type CollectionFilter struct {
	UserID string
	Limit  int
	Offset int
}

func GetCollections(ctx context.Context, db *bun.DB, filter CollectionFilter) ([]*models.CoinCollection, error) {
	var collections []*models.CoinCollection
	q := db.NewSelect().
		Model(&collections).
		Relation("Landmarks", orderedLandmarks).
		Relation("Landmarks.Landmark").
		Order("created_at ASC")

	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}

	return collections, nil
}

func DeleteCollection(ctx context.Context, db *bun.DB, id string) (int64, error) {
	var deleted int64
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.CollectedLandmark)(nil)).
			Where("collection_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*models.CoinCollection)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}

		deleted, err = res.RowsAffected()
		return err
	})

	return deleted, err
}

// LandmarkClaimedSince reports whether any user holds an entry for the
// landmark collected at or after the given time. The cooldown is global
// per landmark, not per user.
func LandmarkClaimedSince(ctx context.Context, db *bun.DB, landmarkID string, since time.Time) (bool, error) {
	return db.NewSelect().
		Model((*models.CollectedLandmark)(nil)).
		Where("landmark_id = ?", landmarkID).
		Where("collected_at >= ?", since).
		Exists(ctx)
}

// SaveClaim commits a successful claim: lazily creates the user's collection,
// appends the ledger entry, and decrements the landmark supply only while it
// is still positive. Everything runs in one transaction; ErrSupplyExhausted
// rolls the append back.
func SaveClaim(ctx context.Context, db *bun.DB, userID, landmarkID string, now time.Time) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		collection := &models.CoinCollection{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := tx.NewInsert().
			Model(collection).
			On("CONFLICT (user_id) DO NOTHING").
			Exec(ctx); err != nil {
			return err
		}

		// re-read to get the surviving id when the collection already existed
		var existing models.CoinCollection
		if err := tx.NewSelect().
			Model(&existing).
			Column("id").
			Where("user_id = ?", userID).
			Scan(ctx); err != nil {
			return err
		}

		entry := &models.CollectedLandmark{
			CollectionID: existing.ID,
			LandmarkID:   landmarkID,
			CollectedAt:  now,
		}
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*models.CoinCollection)(nil)).
			Set("updated_at = ?", now).
			Where("id = ?", existing.ID).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewUpdate().
			Model((*models.Landmark)(nil)).
			Set("coin_amount = coin_amount - 1").
			Where("id = ?", landmarkID).
			Where("coin_amount > 0").
			Exec(ctx)
		if err != nil {
			return err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrSupplyExhausted
		}

		return nil
	})
}

// GetCollectionSummaries pages per-user aggregates ordered by user id, for
// callers that want to sort in process.
func GetCollectionSummaries(ctx context.Context, db *bun.DB, limit, offset int) ([]*models.CollectionSummary, error) {
	var summaries []*models.CollectionSummary
	err := db.NewSelect().
		ColumnExpr("c.user_id AS user_id").
		ColumnExpr("count(l.id) AS coin_count").
		ColumnExpr("max(l.collected_at) AS latest_collected_at").
		TableExpr("coin_collection_landmark AS l").
		Join("JOIN coin_collection AS c ON c.id = l.collection_id").
		GroupExpr("c.user_id").
		OrderExpr("c.user_id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx, &summaries)
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

func GetUserCollectionSummary(ctx context.Context, db *bun.DB, userID string) (*models.CollectionSummary, error) {
	var summary models.CollectionSummary
	err := db.NewSelect().
		ColumnExpr("c.user_id AS user_id").
		ColumnExpr("count(l.id) AS coin_count").
		ColumnExpr("max(l.collected_at) AS latest_collected_at").
		TableExpr("coin_collection_landmark AS l").
		Join("JOIN coin_collection AS c ON c.id = l.collection_id").
		Where("c.user_id = ?", userID).
		GroupExpr("c.user_id").
		Scan(ctx, &summary)
	if err != nil {
		return nil, err
	}
	if summary.UserID == "" {
		return nil, sql.ErrNoRows
	}

	return &summary, nil
}
