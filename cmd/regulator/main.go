package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"office-planner/internal/common/config"
	"office-planner/internal/planner/repository"
	"office-planner/internal/regulator/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/urfave/cli"
)

// ============================================================
// Regulator
// ============================================================

func main() {
	app := makeapp(config.Load())
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("[REGULATOR] %v", err)
	}
}

func makeapp(cfg *config.Config) *cli.App {
	app := cli.NewApp()
	app.Name = "regulator"
	app.Usage = "Sets room thermostats from tomorrow's desk reservations"

	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "Run on the configured schedule until interrupted",
			Action: func(c *cli.Context) error {
				return serveAction(cfg)
			},
		},
		{
			Name:  "once",
			Usage: "Regulate all locations now",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "at", Value: "", Usage: "Run time as RFC3339; defaults to now"},
			},
			Action: func(c *cli.Context) error {
				at := time.Now()
				if v := c.String("at"); v != "" {
					t, err := time.Parse(time.RFC3339, v)
					if err != nil {
						return fmt.Errorf("parse --at: %w", err)
					}
					at = t
				}
				return onceAction(cfg, at)
			},
		},
	}
	app.Action = func(c *cli.Context) error {
		return serveAction(cfg)
	}

	return app
}

func serveAction(cfg *config.Config) error {
	schedule, err := service.ParseSchedule(cfg.Regulator.Hour, cfg.Regulator.DayOfWeek)
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	db, regulator, err := open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting Regulator (env: %s, schedule: %s)", cfg.Environment, schedule.Spec)

	err = schedule.Loop(ctx, func(ctx context.Context, at time.Time) {
		if err := runAll(ctx, cfg, regulator, at); err != nil {
			log.Printf("[REGULATOR] %v", err)
		}
	})
	log.Printf("Regulator stopped: %v", err)
	return nil
}

func onceAction(cfg *config.Config, at time.Time) error {
	db, regulator, err := open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return runAll(context.Background(), cfg, regulator, at)
}

// runAll перечитывает файл локаций на каждый запуск.
func runAll(ctx context.Context, cfg *config.Config, regulator *service.Regulator, at time.Time) error {
	locations, err := service.LoadLocations(cfg.Regulator.LocationsFile)
	if err != nil {
		return err
	}
	return regulator.Run(ctx, locations, at)
}

func open(cfg *config.Config) (*sql.DB, *service.Regulator, error) {
	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init db: %w", err)
	}

	regulator := service.NewRegulator(
		repo,
		service.NewProtocolStorage(cfg.Regulator.ProtocolsDir),
		time.Duration(cfg.Regulator.HTTPTimeout)*time.Second,
	)
	return db, regulator, nil
}
