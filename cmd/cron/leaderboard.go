package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"coinhunt/internal/datastore"
	"coinhunt/internal/datastore/redis_store"
	"coinhunt/internal/models"
	"coinhunt/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_LEADERBOARD)
	if err != nil {
		fmt.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		fmt.Println("No timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("Leaderboard Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
	j.runScheduledTask()
}

func (j *LeaderboardJob) runScheduledTask() {
	ctx := context.Background()
	log.Println("Start rebuilding leaderboard snapshot ...")

	summaries, err := j.loadSummaries(ctx)
	if err != nil {
		log.Println(err)
		return
	}

	services.SortLeaderboard(summaries)

	ids := make([]string, len(summaries))
	for i, summary := range summaries {
		ids[i] = summary.UserID
	}

	users, err := datastore.GetUsersByIDs(ctx, j.Db, ids)
	if err != nil {
		log.Println(err)
		return
	}

	usernames := make(map[string]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}

	entries := make([]*models.LeaderboardEntry, len(summaries))
	for i, summary := range summaries {
		entries[i] = &models.LeaderboardEntry{
			UserID:    summary.UserID,
			Username:  usernames[summary.UserID],
			CoinCount: summary.CoinCount,
			Rank:      i + 1,
		}
	}

	err = redis_store.SetLeaderboardSnapshot(ctx, j.Redis, entries)
	if err != nil {
		log.Println(err)
		return
	}

	log.Println("Leaderboard snapshot rebuilt,", len(entries), "entries")
}

func (j *LeaderboardJob) loadSummaries(ctx context.Context) ([]*models.CollectionSummary, error) {
	limit := 100
	offset := 0

	var all []*models.CollectionSummary
	for {
		page, err := datastore.GetCollectionSummaries(ctx, j.Db, limit, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < limit {
			return all, nil
		}

		offset += limit
	}
}
