package services

import (
	"errors"
	"testing"
	"time"

	"coinhunt/internal/datastore"
	"coinhunt/internal/models"
)

func TestValidateClaim(t *testing.T) {
	landmark := &models.Landmark{
		ID:         "lm-1",
		Name:       "Democracy Monument",
		Latitude:   13.736717,
		Longitude:  100.523186,
		CoinAmount: 10,
		CooldownMS: 60000,
	}

	entryFor := func(ids ...string) []*models.CollectedLandmark {
		entries := make([]*models.CollectedLandmark, len(ids))
		for i, id := range ids {
			entries[i] = &models.CollectedLandmark{LandmarkID: id, CollectedAt: time.Now()}
		}
		return entries
	}

	fullLedger := make([]*models.CollectedLandmark, models.MaxLandmarksPerUser)
	for i := range fullLedger {
		fullLedger[i] = &models.CollectedLandmark{LandmarkID: "other"}
	}

	tests := []struct {
		name       string
		landmark   *models.Landmark
		entries    []*models.CollectedLandmark
		onCooldown bool
		lat, long  float64
		want       error
	}{
		{
			name:     "at the landmark",
			landmark: landmark,
			lat:      13.736717,
			long:     100.523186,
			want:     nil,
		},
		{
			name:     "inside geofence",
			landmark: landmark,
			lat:      13.736717 + 0.00044,
			long:     100.523186,
			want:     nil,
		},
		{
			name:     "outside geofence",
			landmark: landmark,
			lat:      13.736717 + 0.001,
			long:     100.523186,
			want:     ErrTooFar,
		},
		{
			name:       "cooldown from another user's claim",
			landmark:   landmark,
			onCooldown: true,
			lat:        13.736717,
			long:       100.523186,
			want:       ErrLandmarkCooldown,
		},
		{
			name:     "already collected",
			landmark: landmark,
			entries:  entryFor("lm-1"),
			lat:      13.736717,
			long:     100.523186,
			want:     ErrAlreadyCollected,
		},
		{
			name:     "ledger at cap",
			landmark: landmark,
			entries:  fullLedger,
			lat:      13.736717,
			long:     100.523186,
			want:     ErrMaxCollected,
		},
		{
			name: "supply exhausted",
			landmark: &models.Landmark{
				ID:         "lm-1",
				Latitude:   13.736717,
				Longitude:  100.523186,
				CoinAmount: 0,
			},
			lat:  13.736717,
			long: 100.523186,
			want: ErrNoCoinsLeft,
		},
		{
			name: "distance outranks cooldown and supply",
			landmark: &models.Landmark{
				ID:         "lm-1",
				Latitude:   13.736717,
				Longitude:  100.523186,
				CoinAmount: 0,
			},
			onCooldown: true,
			lat:        13.736717 + 0.001,
			long:       100.523186,
			want:       ErrTooFar,
		},
		{
			name:       "cooldown outranks already collected",
			landmark:   landmark,
			entries:    entryFor("lm-1"),
			onCooldown: true,
			lat:        13.736717,
			long:       100.523186,
			want:       ErrLandmarkCooldown,
		},
		{
			name:     "already collected outranks cap",
			landmark: landmark,
			entries:  append(entryFor("lm-1"), fullLedger...),
			lat:      13.736717,
			long:     100.523186,
			want:     ErrAlreadyCollected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateClaim(tt.landmark, tt.entries, tt.onCooldown, tt.lat, tt.long)
			if !errors.Is(got, tt.want) {
				t.Errorf("validateClaim() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClaimCommitError(t *testing.T) {
	if err := claimCommitError(datastore.ErrSupplyExhausted); !errors.Is(err, ErrNoCoinsLeft) {
		t.Errorf("claimCommitError(ErrSupplyExhausted) = %v, want ErrNoCoinsLeft", err)
	}

	other := errors.New("connection reset")
	if err := claimCommitError(other); !errors.Is(err, other) {
		t.Errorf("claimCommitError() = %v, want passthrough", err)
	}
}
