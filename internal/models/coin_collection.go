package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MaxLandmarksPerUser caps how many landmarks a single user may ever claim.
const MaxLandmarksPerUser = 14

type CoinCollection struct {
	bun.BaseModel `bun:"table:coin_collection"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`

	Landmarks []*CollectedLandmark `bun:"rel:has-many,join:id=collection_id" json:"landmarks"`
}

// CollectedLandmark is one append-only ledger entry of a user's collection.
type CollectedLandmark struct {
	bun.BaseModel `bun:"table:coin_collection_landmark"`
	ID            int64     `bun:"id,pk,autoincrement" json:"-"`
	CollectionID  string    `bun:"collection_id" json:"-"`
	LandmarkID    string    `bun:"landmark_id" json:"landmark_id"`
	CollectedAt   time.Time `bun:"collected_at" json:"collected_at"`

	Landmark *Landmark `bun:"rel:belongs-to,join:landmark_id=id" json:"landmark,omitempty"`
}

type CollectResult struct {
	Message  string    `json:"message"`
	Evoucher *Evoucher `json:"evoucher,omitempty"`
}

type RemoveResult struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
