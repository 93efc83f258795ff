package datastore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"coinhunt/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		//nolint:errcheck
		db.Close()
	})

	ctx := context.Background()
	for _, create := range []func(context.Context, *bun.DB) error{
		CreateTableUser,
		CreateTableLandmark,
		CreateTableCoinCollection,
		CreateTableSponsor,
		CreateTableEvoucher,
	} {
		if err := create(ctx, db); err != nil {
			t.Fatal(err)
		}
	}

	return db
}

func insertTestLandmark(t *testing.T, db *bun.DB, id string, coins int) *models.Landmark {
	t.Helper()

	landmark := &models.Landmark{
		ID:         id,
		Name:       id,
		Latitude:   13.736717,
		Longitude:  100.523186,
		CoinAmount: coins,
		CooldownMS: 60000,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := InsertLandmark(context.Background(), db, landmark); err != nil {
		t.Fatal(err)
	}

	return landmark
}

func TestSaveClaimNeverOverdraws(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	landmark := insertTestLandmark(t, db, "lm-1", 1)

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := SaveClaim(ctx, db, "user-a", landmark.ID, now); err != nil {
		t.Fatal(err)
	}

	got, err := GetLandmark(ctx, db, landmark.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CoinAmount != 0 {
		t.Fatalf("coin_amount = %d, want 0", got.CoinAmount)
	}

	err = SaveClaim(ctx, db, "user-b", landmark.ID, now.Add(2*time.Minute))
	if !errors.Is(err, ErrSupplyExhausted) {
		t.Fatalf("SaveClaim() = %v, want ErrSupplyExhausted", err)
	}

	got, err = GetLandmark(ctx, db, landmark.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CoinAmount != 0 {
		t.Errorf("coin_amount after exhausted claim = %d, want 0", got.CoinAmount)
	}

	// the whole transaction rolls back, no ledger entry for user-b
	if _, err := GetCollectionByUser(ctx, db, "user-b"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetCollectionByUser(user-b) = %v, want sql.ErrNoRows", err)
	}
}

func TestLandmarkClaimedSince(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	landmark := insertTestLandmark(t, db, "lm-1", 10)
	insertTestLandmark(t, db, "lm-2", 10)

	claimedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := SaveClaim(ctx, db, "user-a", landmark.ID, claimedAt); err != nil {
		t.Fatal(err)
	}

	// the window covers every user's claims, not just the caller's
	claimed, err := LandmarkClaimedSince(ctx, db, landmark.ID, claimedAt.Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !claimed {
		t.Error("expected claim inside the window")
	}

	claimed, err = LandmarkClaimedSince(ctx, db, landmark.ID, claimedAt.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if claimed {
		t.Error("expected no claim after the window start")
	}

	claimed, err = LandmarkClaimedSince(ctx, db, "lm-2", claimedAt.Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if claimed {
		t.Error("expected no claim for the untouched landmark")
	}
}

func TestCollectionEntriesOrderedByClaimTime(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	first := insertTestLandmark(t, db, "lm-early", 10)
	second := insertTestLandmark(t, db, "lm-late", 10)

	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	// insert the later claim first so insertion order and claim order differ
	if err := SaveClaim(ctx, db, "user-a", second.ID, t2); err != nil {
		t.Fatal(err)
	}
	if err := SaveClaim(ctx, db, "user-a", first.ID, t1); err != nil {
		t.Fatal(err)
	}

	collection, err := GetCollectionByUser(ctx, db, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(collection.Landmarks) != 2 {
		t.Fatalf("len(Landmarks) = %d, want 2", len(collection.Landmarks))
	}
	if collection.Landmarks[0].LandmarkID != first.ID || collection.Landmarks[1].LandmarkID != second.ID {
		t.Errorf("entries = [%s, %s], want [%s, %s]",
			collection.Landmarks[0].LandmarkID, collection.Landmarks[1].LandmarkID, first.ID, second.ID)
	}
}
