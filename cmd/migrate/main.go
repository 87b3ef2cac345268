package main

import (
	"context"
	"fmt"
	"os"
	"time"

	mongomigration "hotelbooking/internal/migrations/mongo"
	postgresmigration "hotelbooking/internal/migrations/postgres"
	"hotelbooking/pkg/config"

	"github.com/urfave/cli/v2"
)

const JobName = "migrate"

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "Create the collections, tables and indexes of the booking service",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "abort the migration after this long",
				Value: 2 * time.Minute,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "migrate the store selected by STORAGE_DRIVER",
				Action: func(c *cli.Context) error {
					cfg := config.FromEnv(JobName)
					return migrate(c, cfg)
				},
			},
			{
				Name:  "mongo",
				Usage: "migrate MongoDB (MONGO_URI, MONGO_DATABASE_NAME)",
				Action: func(c *cli.Context) error {
					cfg := config.FromEnv(JobName)
					cfg.StorageDriver = config.StorageMongo
					return migrate(c, cfg)
				},
			},
			{
				Name:  "postgres",
				Usage: "migrate PostgreSQL (POSTGRES_URL)",
				Action: func(c *cli.Context) error {
					cfg := config.FromEnv(JobName)
					cfg.StorageDriver = config.StoragePostgres
					return migrate(c, cfg)
				},
			},
			{
				Name:  "schema",
				Usage: "print the PostgreSQL schema without applying it",
				Action: func(c *cli.Context) error {
					for _, stmt := range postgresmigration.Statements() {
						fmt.Fprintf(c.App.Writer, "%s;\n\n", stmt)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrate(c *cli.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	cfg.Log.Info("Starting migration job", "storage_driver", cfg.StorageDriver)
	cfg.SetStore()
	defer cfg.GracefulShutdown()

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		return postgresmigration.RunMigration(ctx, cfg.Client.Postgres, cfg.Log)
	case config.StorageMongo:
		return mongomigration.RunMigration(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log)
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
