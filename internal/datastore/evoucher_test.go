package datastore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"coinhunt/internal/models"
)

func TestClaimEvoucherCodeSingleUse(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	sponsor := &models.Sponsor{ID: "sp-1", Name: "Cafe", Weight: 10, Active: true, CreatedAt: time.Now().UTC()}
	if err := InsertSponsor(ctx, db, sponsor); err != nil {
		t.Fatal(err)
	}
	if err := InsertEvoucher(ctx, db, &models.Evoucher{ID: "ev-1", SponsorID: sponsor.ID, Code: "COFFEE-1"}); err != nil {
		t.Fatal(err)
	}

	firstAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	claimed, err := ClaimEvoucherCode(ctx, db, sponsor.ID, "user-a", firstAt)
	if err != nil {
		t.Fatal(err)
	}
	if claimed.Code != "COFFEE-1" {
		t.Fatalf("Code = %s, want COFFEE-1", claimed.Code)
	}

	// second draw finds nothing and must not touch the claimed row
	_, err = ClaimEvoucherCode(ctx, db, sponsor.ID, "user-b", firstAt.Add(time.Second))
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("ClaimEvoucherCode() = %v, want sql.ErrNoRows", err)
	}

	var evoucher models.Evoucher
	if err := db.NewSelect().Model(&evoucher).Where("id = ?", "ev-1").Scan(ctx); err != nil {
		t.Fatal(err)
	}
	if evoucher.ClaimedBy == nil || *evoucher.ClaimedBy != "user-a" {
		t.Errorf("ClaimedBy = %v, want user-a", evoucher.ClaimedBy)
	}
}

func TestClaimEvoucherCodeDrainsPool(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	sponsor := &models.Sponsor{ID: "sp-1", Name: "Cafe", Weight: 10, Active: true, CreatedAt: time.Now().UTC()}
	if err := InsertSponsor(ctx, db, sponsor); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"ev-1", "ev-2"} {
		if err := InsertEvoucher(ctx, db, &models.Evoucher{ID: id, SponsorID: sponsor.ID, Code: "CODE-" + id}); err != nil {
			t.Fatal(err)
		}
	}

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := ClaimEvoucherCode(ctx, db, sponsor.ID, "user-a", now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ClaimEvoucherCode(ctx, db, sponsor.ID, "user-b", now)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Errorf("both draws returned %s, want distinct codes", first.ID)
	}

	if _, err := ClaimEvoucherCode(ctx, db, sponsor.ID, "user-c", now); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ClaimEvoucherCode() on empty pool = %v, want sql.ErrNoRows", err)
	}
}
