package datastore

import (
	"context"
	"time"

	"coinhunt/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableSponsor(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Sponsor)(nil)).IfNotExists().Exec(ctx)
	return err
}

func CreateTableEvoucher(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Evoucher)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Evoucher)(nil)).Index("index_evoucher_sponsor_claimed").IfNotExists().Column("sponsor_id", "claimed_by").Exec(ctx)
	return err
}

func InsertSponsor(ctx context.Context, db *bun.DB, sponsor *models.Sponsor) error {
	_, err := db.NewInsert().Model(sponsor).Exec(ctx)
	return err
}

func InsertEvoucher(ctx context.Context, db *bun.DB, evoucher *models.Evoucher) error {
	_, err := db.NewInsert().Model(evoucher).Exec(ctx)
	return err
}

func GetActiveSponsors(ctx context.Context, db *bun.DB) ([]*models.Sponsor, error) {
	var sponsors []*models.Sponsor
	err := db.NewSelect().Model(&sponsors).Where("active = TRUE").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return sponsors, nil
}

// ClaimEvoucherCode hands one unclaimed code of the sponsor to the user.
// The claimed_by IS NULL guard must stay on the UPDATE itself, not only in
// the subquery: two concurrent draws can pick the same row, and only the
// re-checked outer predicate keeps the second from overwriting the first.
// Returns sql.ErrNoRows when the sponsor's pool is empty.
func ClaimEvoucherCode(ctx context.Context, db *bun.DB, sponsorID, userID string, now time.Time) (*models.Evoucher, error) {
	var evoucher models.Evoucher
	err := db.NewUpdate().
		Model(&evoucher).
		Set("claimed_by = ?", userID).
		Set("claimed_at = ?", now).
		Where("claimed_by IS NULL").
		Where("id = (?)", db.NewSelect().
			Model((*models.Evoucher)(nil)).
			Column("id").
			Where("sponsor_id = ?", sponsorID).
			Where("claimed_by IS NULL").
			Limit(1)).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &evoucher, nil
}

func GetEvouchersByUser(ctx context.Context, db *bun.DB, userID string) ([]*models.Evoucher, error) {
	var evouchers []*models.Evoucher
	err := db.NewSelect().
		Model(&evouchers).
		Relation("Sponsor").
		Where("claimed_by = ?", userID).
		Order("claimed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return evouchers, nil
}
