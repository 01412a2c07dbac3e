package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wastewise/wastewise-core/internal/report"
)

func openRedis(ctx context.Context, d *Deps) (redis.UniversalClient, error) {
	if d.OpenRedis == nil {
		return nil, fmt.Errorf("redis is not configured")
	}
	rdb, err := d.OpenRedis(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

func runReport(ctx context.Context, d *Deps, args []string) error {
	if len(args) < 1 {
		return usageErr("report: expected collect, latest or history")
	}

	switch args[0] {
	case "collect":
		fs := newFlagSet(d, "report collect")
		category := fs.String("category", "", "narrow the dead-stock list to a category")
		byCategory := fs.Bool("by-category", false, "include the per-category inventory breakdown")
		publish := fs.Bool("publish", false, "publish the snapshot to redis")
		text := fs.Bool("text", false, "print a text digest instead of JSON")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}

		snap, err := report.Collect(ctx, d.API, report.Options{
			Category:                 *category,
			IncludeCategoryBreakdown: *byCategory,
		})
		if err != nil {
			return err
		}

		if *publish {
			rdb, err := openRedis(ctx, d)
			if err != nil {
				return err
			}
			defer rdb.Close()
			if _, err := report.NewStore(rdb, d.Config.Report).Publish(ctx, snap); err != nil {
				return err
			}
		}
		return printSnapshot(d, snap, *text)

	case "latest":
		fs := newFlagSet(d, "report latest")
		text := fs.Bool("text", false, "print a text digest instead of JSON")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}

		rdb, err := openRedis(ctx, d)
		if err != nil {
			return err
		}
		defer rdb.Close()
		snap, err := report.NewStore(rdb, d.Config.Report).Latest(ctx)
		if err != nil {
			return err
		}
		return printSnapshot(d, snap, *text)

	case "history":
		fs := newFlagSet(d, "report history")
		n := fs.Int64("n", 10, "number of snapshots, newest first")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}

		rdb, err := openRedis(ctx, d)
		if err != nil {
			return err
		}
		defer rdb.Close()
		snaps, err := report.NewStore(rdb, d.Config.Report).History(ctx, *n)
		if err != nil {
			return err
		}
		return printJSON(d.Stdout, snaps)

	default:
		return usageErr("report: unknown subcommand %q", args[0])
	}
}

func printSnapshot(d *Deps, snap *report.Snapshot, text bool) error {
	if text {
		return report.Render(d.Stdout, snap)
	}
	return printJSON(d.Stdout, snap)
}
