// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/taibuivan/sakura/internal/app"
	"github.com/taibuivan/sakura/internal/core/comic"
	"github.com/taibuivan/sakura/internal/platform/config"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

// newRootCommand builds the sakuractl command tree writing to out.
func newRootCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "sakuractl",
		Usage: "Sakura storage administration",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "log store activity to stderr"},
		},
		Commands: []*cli.Command{
			seedCommand(out),
			migrateCommand(out),
			comicsCommand(out),
			usersCommand(out),
		},
	}
}

// # Commands

func seedCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Replace the catalogue with the built-in comics or a YAML dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "YAML dataset in the seed layout"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			comics, err := readSeed(c.String("file"))
			if err != nil {
				return err
			}

			return withApp(ctx, c, func(application *app.App) error {
				if err := application.Catalogue.Replace(ctx, comics); err != nil {
					return err
				}
				fmt.Fprintf(out, "seeded %d comics\n", len(application.Catalogue.Comics()))
				return nil
			})
		},
	}
}

func migrateCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Copy every entry of the configured backend into another backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Required: true, Usage: "target backend: memory, file, sqlite, redis, postgres"},
			&cli.StringFlag{Name: "data-dir", Usage: "target directory for the file backend"},
			&cli.StringFlag{Name: "sqlite-path", Usage: "target database for the sqlite backend"},
			&cli.StringFlag{Name: "redis-url", Usage: "target URL for the redis backend"},
			&cli.StringFlag{Name: "database-url", Usage: "target URL for the postgres backend"},
			&cli.StringFlag{Name: "prefix", Usage: "only copy keys with this prefix"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			source, err := config.Load()
			if err != nil {
				return err
			}

			target := *source
			target.StorageBackend = c.String("to")
			overrideString(&target.DataDir, c.String("data-dir"))
			overrideString(&target.SQLitePath, c.String("sqlite-path"))
			overrideString(&target.RedisURL, c.String("redis-url"))
			overrideString(&target.DatabaseURL, c.String("database-url"))
			if err := target.Validate(); err != nil {
				return err
			}

			logger := newLogger(c)
			from, err := storage.Open(ctx, source, logger)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer func() { _ = from.Close() }()

			to, err := storage.Open(ctx, &target, logger)
			if err != nil {
				return fmt.Errorf("open target: %w", err)
			}
			defer func() { _ = to.Close() }()

			copied, err := storage.Copy(ctx, from, to, c.String("prefix"))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "copied %d entries from %s to %s\n", copied, source.StorageBackend, target.StorageBackend)
			return nil
		},
	}
}

func comicsCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "comics",
		Usage: "Inspect the catalogue",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every comic",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, c, func(application *app.App) error {
						comics := application.Catalogue.Comics()
						if c.Bool("json") {
							return printJSON(out, comics)
						}

						table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
						fmt.Fprintln(table, "ID\tTITLE\tSTATUS\tCHAPTERS\tVIEWS")
						for _, item := range comics {
							fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%d\n", item.ID, item.Title, item.Status, len(item.Chapters), item.Views)
						}
						return table.Flush()
					})
				},
			},
		},
	}
}

func usersCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Inspect registered users",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every profile",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, c, func(application *app.App) error {
						users := application.Users.Users()
						if c.Bool("json") {
							return printJSON(out, users)
						}

						table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
						fmt.Fprintln(table, "ID\tUSERNAME\tEMAIL\tROLE\tBOOKMARKS")
						for _, user := range users {
							fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%d\n", user.ID, user.Username, user.Email, user.Role, len(user.Bookmarks))
						}
						return table.Flush()
					})
				},
			},
			{
				Name:  "stats",
				Usage: "Count all users and recent registrations",
				Flags: []cli.Flag{&cli.IntFlag{Name: "days", Value: 30, Usage: "registration window in days"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					days := int(c.Int("days"))
					if days < 0 {
						return fmt.Errorf("days must not be negative")
					}
					return withApp(ctx, c, func(application *app.App) error {
						fmt.Fprintf(out, "total users: %d\nnew in last %d days: %d\n",
							application.Users.TotalUsers(), days, application.Users.NewUsersCount(days))
						return nil
					})
				},
			},
		},
	}
}

// # Helpers

// withApp opens the configured backend, builds the stores and closes
// everything once run returns.
func withApp(ctx context.Context, c *cli.Command, run func(*app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(c)
	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}

	application := app.New(ctx, cfg, backend, logger)
	defer func() { _ = application.Close() }()

	return run(application)
}

func readSeed(path string) ([]*comic.Comic, error) {
	if path == "" {
		return comic.DefaultComics()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return comic.ParseSeed(raw)
}

func newLogger(c *cli.Command) *slog.Logger {
	level := slog.LevelWarn
	if c.Root().Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "sakuractl"))
}

func overrideString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
