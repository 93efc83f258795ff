package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Landmark struct {
	bun.BaseModel `bun:"table:landmark"`
	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name" json:"name"`
	Latitude      float64   `bun:"latitude" json:"latitude"`
	Longitude     float64   `bun:"longitude" json:"longitude"`
	CoinAmount    int       `bun:"coin_amount" json:"coin_amount"`
	CooldownMS    int64     `bun:"cooldown_ms" json:"cooldown"`
	HintImage     string    `bun:"hint_image" json:"hint_image"`
	Active        bool      `bun:"active,default:true" json:"active"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

// Cooldown is the minimum gap between any two successful claims of this
// landmark, across all users.
func (l *Landmark) Cooldown() time.Duration {
	return time.Duration(l.CooldownMS) * time.Millisecond
}
