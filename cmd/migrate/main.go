package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"coinhunt/internal/datastore"
	"coinhunt/internal/models"
	"coinhunt/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandSeedLandmarks(),
			commandSeedEvouchers(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUser(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableLandmark(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCoinCollection(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableSponsor(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableEvoucher(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: "production"},
				{Key: services.CONFIG_LEADERBOARD_LIMIT, Value: "5"},
				{Key: services.CONFIG_COLLECT_RATE_LIMIT, Value: "10"},
				{Key: services.CONFIG_CRONJOB_TIME_LEADERBOARD, Value: "@every 5m"},
			}

			for _, config := range configs {
				_, err = db.NewInsert().Model(&config).Exec(ctx)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

func commandSeedLandmarks() *cli.Command {
	return &cli.Command{
		Name:        "seed-landmarks",
		Description: "Insert landmarks from a csv of name,latitude,longitude,coin_amount,cooldown_ms,hint_image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Value: "./landmarks.csv",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			rows, err := readCsv(c.String("input"))
			if err != nil {
				return err
			}

			for _, row := range rows {
				lat, err := strconv.ParseFloat(row[1], 64)
				if err != nil {
					return err
				}

				long, err := strconv.ParseFloat(row[2], 64)
				if err != nil {
					return err
				}

				coins, err := strconv.Atoi(row[3])
				if err != nil {
					return err
				}

				cooldown, err := strconv.ParseInt(row[4], 10, 64)
				if err != nil {
					return err
				}

				hintImage := ""
				if len(row) > 5 {
					hintImage = row[5]
				}

				landmark := &models.Landmark{
					ID:         uuid.NewString(),
					Name:       row[0],
					Latitude:   lat,
					Longitude:  long,
					CoinAmount: coins,
					CooldownMS: cooldown,
					HintImage:  hintImage,
					Active:     true,
				}

				err = datastore.InsertLandmark(ctx, db, landmark)
				if err != nil {
					fmt.Println(err)
				}
			}

			fmt.Println("Seed success")

			return nil
		},
	}
}

func commandSeedEvouchers() *cli.Command {
	return &cli.Command{
		Name:        "seed-evouchers",
		Description: "Insert evoucher codes from a csv of sponsor_id,code",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Value: "./evouchers.csv",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			rows, err := readCsv(c.String("input"))
			if err != nil {
				return err
			}

			for _, row := range rows {
				evoucher := &models.Evoucher{
					ID:        uuid.NewString(),
					SponsorID: row[0],
					Code:      row[1],
				}

				err = datastore.InsertEvoucher(ctx, db, evoucher)
				if err != nil {
					fmt.Println(err)
				}
			}

			fmt.Println("Seed success")

			return nil
		},
	}
}

func readCsv(inputPath string) ([][]string, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return csv.NewReader(file).ReadAll()
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
