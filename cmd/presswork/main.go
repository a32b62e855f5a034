// Command presswork is the operations CLI: schema migrations, orphaned
// upload reports, profile checks and ad-hoc quotes against the live catalog.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v3"

	"github.com/dukerupert/presswork/internal"
	"github.com/dukerupert/presswork/internal/catalog"
	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/postgres"
	"github.com/dukerupert/presswork/internal/service"
	"github.com/dukerupert/presswork/internal/storage"
)

type app struct {
	out    io.Writer
	cfg    *internal.Config
	logger *slog.Logger
}

func newCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "presswork",
		Usage: "Operate the product configurator service",
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := internal.NewConfig()
			if err != nil {
				return ctx, err
			}
			a.cfg = cfg
			a.logger = internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: a.withSQL(internal.RunMigrations, "Migrations applied"),
					},
					{
						Name:   "down",
						Usage:  "Roll back the most recent migration",
						Action: a.withSQL(internal.RollbackMigration, "Rolled back one migration"),
					},
					{
						Name:   "status",
						Usage:  "Show applied and pending migrations",
						Action: a.withSQL(internal.MigrationStatus, ""),
					},
				},
			},
			{
				Name:  "orphans",
				Usage: "List uploads that were never attached to a cart line",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "only list uploads at least this old",
						Value: 24 * time.Hour,
					},
				},
				Action: a.orphans,
			},
			{
				Name:      "profiles",
				Usage:     "Validate a product profile file",
				ArgsUsage: "[path]",
				Action:    a.profiles,
			},
			{
				Name:  "quote",
				Usage: "Price a selection and look up its stock",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "product", Usage: "product id", Required: true},
					&cli.StringSliceFlag{Name: "variant", Usage: "group_id=value_id, repeat per option group"},
					&cli.IntFlag{Name: "qty", Usage: "quantity", Value: 1},
					&cli.StringFlag{Name: "width", Usage: "custom width"},
					&cli.StringFlag{Name: "height", Usage: "custom height"},
				},
				Action: a.quote,
			},
		},
	}
}

// withSQL opens a database/sql handle for goose-backed commands.
func (a *app) withSQL(fn func(*sql.DB) error, done string) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		db, err := sql.Open("pgx", a.cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		if err := fn(db); err != nil {
			return err
		}
		if done != "" {
			fmt.Fprintln(a.out, done)
		}
		return nil
	}
}

func (a *app) openStore(ctx context.Context) (*postgres.Store, func(), error) {
	pool, err := pgxpool.New(ctx, a.cfg.DatabaseUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return postgres.NewStore(pool), pool.Close, nil
}

func (a *app) orphans(ctx context.Context, c *cli.Command) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	files, err := storage.NewStorage(a.cfg.Storage)
	if err != nil {
		return err
	}

	uploads := service.NewUploadService(store, files, a.cfg.MaxUploadSize, a.logger, nil)
	orphans, err := uploads.ListOrphans(ctx, c.Duration("older-than"))
	if err != nil {
		return err
	}
	return writeOrphans(a.out, orphans)
}

func writeOrphans(w io.Writer, orphans []domain.UploadedFile) error {
	if len(orphans) == 0 {
		_, err := fmt.Fprintln(w, "No orphaned uploads")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tFILE\tSIZE\tCREATED")
	for _, o := range orphans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.ID, o.UserID, o.Filename, o.SizeBytes, o.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (a *app) profiles(ctx context.Context, c *cli.Command) error {
	path := a.cfg.ProfilePath
	if c.Args().Present() {
		path = c.Args().First()
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("profile file %s: %w", path, err)
	}
	if _, err := catalog.LoadProfiles(path, a.cfg.Storage.FallbackAsset); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is valid\n", path)
	return nil
}

func (a *app) quote(ctx context.Context, c *cli.Command) error {
	productID, err := uuid.Parse(c.String("product"))
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	sel, err := parseVariants(c.StringSlice("variant"))
	if err != nil {
		return err
	}
	size, err := parseSize(c.String("width"), c.String("height"))
	if err != nil {
		return err
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	profiles, err := catalog.LoadProfiles(a.cfg.ProfilePath, a.cfg.Storage.FallbackAsset)
	if err != nil {
		return err
	}
	files, err := storage.NewStorage(a.cfg.Storage)
	if err != nil {
		return err
	}

	catalogService := service.NewCatalogService(store, profiles, files, a.logger, nil)
	quotes := service.NewQuoteService(catalogService, service.NewStockResolver(store, profiles, a.logger, nil), profiles)
	q, err := quotes.Quote(ctx, domain.QuoteRequest{
		ProductID: productID,
		Selection: sel,
		Quantity:  int32(c.Int("qty")),
		Size:      size,
	})
	if err != nil {
		return err
	}
	return writeQuote(a.out, q)
}

func writeQuote(w io.Writer, q *domain.Quote) error {
	stock := "n/a (selection incomplete)"
	if q.Stock.Resolved {
		stock = fmt.Sprintf("%d", q.Stock.Quantity)
		if q.Stock.LowStock {
			stock += " (low)"
		}
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Unit price\t%s\n", q.Price.Unit.StringFixed(2))
	fmt.Fprintf(tw, "Size surcharge\t%s\n", q.Price.Surcharge.StringFixed(2))
	fmt.Fprintf(tw, "Quantity\t%d\n", q.Price.Quantity)
	fmt.Fprintf(tw, "Total\t%s\n", q.Price.Total.StringFixed(2))
	fmt.Fprintf(tw, "In stock\t%s\n", stock)
	return tw.Flush()
}

func main() {
	a := &app{out: os.Stdout}
	if err := newCommand(a).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
