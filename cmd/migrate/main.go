package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/meradukaan/meradukaan-backend/pkg/config"
	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	"github.com/meradukaan/meradukaan-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", "", "migrations directory on disk (default: migrations compiled into the binary)")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate are authoring tools and never touch the database
	switch *cmd {
	case "create":
		target := *dir
		if target == "" {
			target = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, *name)
		exitOn(err, "create migration")
		fmt.Println("created migration:", path)
		return
	case "validate":
		exitOn(migrate.Validate(migrate.Source(*dir)), "validate migrations")
		fmt.Println("migration validation passed")
		return
	}

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	exitOn(err, "load config")

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"cmd": *cmd,
	})

	sqlDB, err := migrate.Open(ctx, cfg.DB.DSN)
	exitOn(err, "connect database")
	defer sqlDB.Close()

	runner, err := migrate.NewRunner(sqlDB, migrate.Source(*dir))
	exitOn(err, "migration runner")

	failOn := func(err error, step string) {
		if err == nil {
			return
		}
		logg.Error(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), step, err)
		_ = sqlDB.Close()
		os.Exit(1)
	}

	switch *cmd {
	case "up":
		applied, err := runner.Up(ctx)
		failOn(err, "migrate up")
		logg.Info(logg.WithField(ctx, "applied", applied), "migrations applied")
	case "down":
		rolledBack, err := runner.Down(ctx)
		failOn(err, "migrate down")
		logg.Info(logg.WithField(ctx, "version", rolledBack), "migration rolled back")
	case "status":
		statuses, err := runner.Status(ctx)
		failOn(err, "migrate status")
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
		for _, st := range statuses {
			applied := "-"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", st.Source.Version, st.State, applied, st.Source.Path)
		}
		_ = tw.Flush()
	case "version":
		failOn(runner.MigrateTo(ctx, *version), "migrate to version")
		logg.Info(logg.WithField(ctx, "version", *version), "schema at requested version")
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(2)
	}
}

func exitOn(err error, step string) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
