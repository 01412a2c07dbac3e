package cli

import (
	"context"
)

func runLegacy(ctx context.Context, d *Deps, args []string) error {
	if len(args) < 1 {
		return usageErr("legacy: expected metrics, recommend, dead-stock, update-discounts or health")
	}
	if d.Legacy == nil {
		return usageErr("legacy: client is not configured")
	}

	var (
		out any
		err error
	)
	switch args[0] {
	case "metrics":
		out, err = d.Legacy.Metrics(ctx)
	case "recommend":
		fs := newFlagSet(d, "legacy recommend")
		user := fs.String("user", "", "user ID")
		n := fs.Int("n", 10, "number of recommendations")
		if err = parse(fs, args[1:]); err != nil {
			return err
		}
		var id string
		if id, err = idArg("user ID", *user, fs.Args()); err != nil {
			return err
		}
		out, err = d.Legacy.Recommendations(ctx, id, *n)
	case "dead-stock":
		out, err = d.Legacy.DeadStockRisk(ctx)
	case "update-discounts":
		out, err = d.Legacy.UpdateDiscounts(ctx)
	case "health":
		out, err = d.Legacy.HealthCheck(ctx)
	default:
		return usageErr("legacy: unknown subcommand %q", args[0])
	}
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}
