package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Sponsor struct {
	bun.BaseModel `bun:"table:sponsor"`
	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name" json:"name"`
	Logo          string    `bun:"logo" json:"logo"`
	Weight        int       `bun:"weight" json:"weight"`
	Active        bool      `bun:"active,default:true" json:"active"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// Evoucher is a single sponsor code; claimed at most once.
type Evoucher struct {
	bun.BaseModel `bun:"table:evoucher"`
	ID            string     `bun:"id,pk" json:"id"`
	SponsorID     string     `bun:"sponsor_id" json:"sponsor_id"`
	Code          string     `bun:"code" json:"code"`
	ClaimedBy     *string    `bun:"claimed_by" json:"-"`
	ClaimedAt     *time.Time `bun:"claimed_at" json:"claimed_at,omitempty"`

	Sponsor *Sponsor `bun:"rel:belongs-to,join:sponsor_id=id" json:"sponsor,omitempty"`
}
