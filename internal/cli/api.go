package cli

import (
	"context"
	"strings"

	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

func runHealth(ctx context.Context, d *Deps, args []string) error {
	if err := noArgs(d, "health", args); err != nil {
		return err
	}
	out, err := d.API.Health(ctx)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runIndex(ctx context.Context, d *Deps, args []string) error {
	if err := noArgs(d, "index", args); err != nil {
		return err
	}
	out, err := d.API.Index(ctx)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runProducts(ctx context.Context, d *Deps, args []string) error {
	fs := newFlagSet(d, "products")
	category := fs.String("category", "", "category filter")
	diet := fs.String("diet", "", "diet type filter (vegan, vegetarian, eggs, non-vegetarian)")
	minDiscount := fs.Float64("min-discount", 0, "minimum current discount percent")
	maxDays := fs.Int("max-days", 0, "maximum days until expiry")
	includeExpired := fs.Bool("include-expired", false, "include expired products (paginated backends)")
	page := fs.Int("page", 1, "page number (paginated backends)")
	pageSize := fs.Int("page-size", 50, "page size (paginated backends)")
	dynamic := fs.Bool("dynamic", false, "attach dynamic pricing to each product (paginated backends)")
	if err := parse(fs, args); err != nil {
		return err
	}
	set := setFlags(fs)

	var filter wasteapi.ProductFilter
	if set["category"] {
		filter.Category = category
	}
	if set["diet"] {
		filter.DietType = diet
	}
	if set["min-discount"] {
		filter.MinDiscount = minDiscount
	}
	if set["max-days"] {
		filter.MaxDaysUntilExpiry = maxDays
	}

	if !set["page"] && !set["page-size"] && !set["include-expired"] && !set["dynamic"] {
		out, err := d.API.ListProducts(ctx, filter)
		if err != nil {
			return err
		}
		return printJSON(d.Stdout, out)
	}

	q := wasteapi.ProductPageQuery{ProductFilter: filter}
	if set["include-expired"] {
		q.IncludeExpired = includeExpired
	}
	if set["page"] {
		q.Page = page
	}
	if set["page-size"] {
		q.PageSize = pageSize
	}
	if set["dynamic"] {
		q.Dynamic = dynamic
	}
	out, err := d.API.ListProductsPage(ctx, q)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

// idArg takes an ID from the named flag or, failing that, the single
// positional argument.
func idArg(name, fromFlag string, positional []string) (string, error) {
	id := strings.TrimSpace(fromFlag)
	if id == "" && len(positional) == 1 {
		id = strings.TrimSpace(positional[0])
	}
	if id == "" {
		return "", usageErr("%s is required", name)
	}
	return id, nil
}

func runPricing(ctx context.Context, d *Deps, args []string) error {
	fs := newFlagSet(d, "pricing")
	product := fs.String("product", "", "product ID")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := idArg("product ID", *product, fs.Args())
	if err != nil {
		return err
	}
	out, err := d.API.DynamicPricing(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runBuy(ctx context.Context, d *Deps, args []string) error {
	fs := newFlagSet(d, "buy")
	user := fs.String("user", "", "user ID")
	product := fs.String("product", "", "product ID")
	quantity := fs.Int("quantity", 1, "quantity; passed to the server unchecked")
	static := fs.Bool("static", false, "buy at the current discount instead of the dynamic price")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *user == "" || *product == "" {
		return usageErr("buy: --user and --product are required")
	}

	out, err := d.API.CreateTransaction(ctx, wasteapi.TransactionRequest{
		UserID:    *user,
		ProductID: *product,
		Quantity:  *quantity,
	}, wasteapi.WithDynamicPricing(!*static))
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runRecommend(ctx context.Context, d *Deps, args []string) error {
	fs := newFlagSet(d, "recommend")
	user := fs.String("user", "", "user ID")
	n := fs.Int("n", 0, "number of recommendations; server default when omitted")
	dynamic := fs.Bool("dynamic", false, "attach dynamic pricing to each recommendation")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := idArg("user ID", *user, fs.Args())
	if err != nil {
		return err
	}
	params := wasteapi.RecommendationsParams{N: *n}
	if setFlags(fs)["dynamic"] {
		params.Dynamic = dynamic
	}
	out, err := d.API.Recommendations(ctx, id, params)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runDeadStock(ctx context.Context, d *Deps, args []string) error {
	fs := newFlagSet(d, "dead-stock")
	category := fs.String("category", "", "category filter")
	minRisk := fs.String("min-risk", "", "lowest risk band to include (CRITICAL, HIGH, MEDIUM, LOW); server default HIGH")
	dynamic := fs.Bool("dynamic", false, "attach dynamic pricing to each item")
	if err := parse(fs, args); err != nil {
		return err
	}
	set := setFlags(fs)

	if !set["min-risk"] && !set["dynamic"] {
		out, err := d.API.DeadStockRisk(ctx, *category)
		if err != nil {
			return err
		}
		return printJSON(d.Stdout, out)
	}

	q := wasteapi.DeadStockQuery{Category: *category}
	if set["min-risk"] {
		level := wasteapi.RiskLevel(strings.ToUpper(strings.TrimSpace(*minRisk)))
		switch level {
		case wasteapi.RiskCritical, wasteapi.RiskHigh, wasteapi.RiskMedium, wasteapi.RiskLow:
			q.MinRiskLevel = level
		default:
			return usageErr("dead-stock: --min-risk must be CRITICAL, HIGH, MEDIUM or LOW, got %q", *minRisk)
		}
	}
	if set["dynamic"] {
		q.Dynamic = dynamic
	}
	out, err := d.API.DeadStockRiskQuery(ctx, q)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runExpired(ctx context.Context, d *Deps, args []string) error {
	if err := noArgs(d, "expired", args); err != nil {
		return err
	}
	out, err := d.API.ExpiredProducts(ctx)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runCategories(ctx context.Context, d *Deps, args []string) error {
	if err := noArgs(d, "categories", args); err != nil {
		return err
	}
	out, err := d.API.Categories(ctx)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runUsers(ctx context.Context, d *Deps, args []string) error {
	if err := noArgs(d, "users", args); err != nil {
		return err
	}
	out, err := d.API.Users(ctx)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runRefresh(ctx context.Context, d *Deps, args []string) error {
	if err := noArgs(d, "refresh", args); err != nil {
		return err
	}
	out, err := d.API.RefreshData(ctx)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runSummary(ctx context.Context, d *Deps, args []string) error {
	fs := newFlagSet(d, "summary")
	byCategory := fs.Bool("by-category", false, "include the per-category breakdown")
	if err := parse(fs, args); err != nil {
		return err
	}
	out, err := d.API.InventorySummary(ctx, *byCategory)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runAnalytics(ctx context.Context, d *Deps, args []string) error {
	if err := noArgs(d, "analytics", args); err != nil {
		return err
	}
	out, err := d.API.InventoryAnalytics(ctx)
	if err != nil {
		return err
	}
	return printJSON(d.Stdout, out)
}

func runWeekly(ctx context.Context, d *Deps, args []string) error {
	fs := newFlagSet(d, "weekly")
	kind := fs.String("kind", "inventory", "inventory or expired")
	weeks := fs.Int("weeks", 0, "weeks back; server default when omitted")
	metric := fs.String("metric", "", "qty or cost; server default when omitted")
	if err := parse(fs, args); err != nil {
		return err
	}

	q := wasteapi.WeeklyQuery{WeeksBack: *weeks, MetricType: wasteapi.MetricType(*metric)}
	switch *kind {
	case "inventory":
		out, err := d.API.WeeklyInventory(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(d.Stdout, out)
	case "expired":
		out, err := d.API.WeeklyExpired(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(d.Stdout, out)
	default:
		return usageErr("weekly: --kind must be inventory or expired, got %q", *kind)
	}
}
