package main

import (
	"context"
	"flag"
	"time"

	mongoMigration "roombook/internal/migrations/mongo"
	"roombook/pkg/config"
)

const JobName = "bookings-migrate"

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline for the migration")
	dryRun := flag.Bool("dry-run", false, "log the collections and indexes that would be ensured, then exit")
	flag.Parse()

	cfg := config.Load(JobName)

	if *dryRun {
		for _, def := range mongoMigration.Collections() {
			cfg.Log.Info("Would ensure collection", "collection", def.Name, "indexes", len(def.Indexes))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err, "database", cfg.MongoDatabaseName)
	}
}
