package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"
)

// Render writes a plain-text digest of snap.
func Render(w io.Writer, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("render: nil snapshot")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Snapshot %s (%s)\n", snap.ID, snap.CreatedAt.Format(time.RFC3339))
	if snap.Category != "" {
		fmt.Fprintf(tw, "Category filter: %s\n", snap.Category)
	}

	s := snap.Summary
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "INVENTORY\tPRODUCTS\tQTY\tCOST")
	fmt.Fprintf(tw, "alive\t%d\t%d\t%.2f\n", s.AliveProductsCount, s.AliveInventoryQty, s.AliveInventoryCost)
	fmt.Fprintf(tw, "at risk\t%d\t%d\t%.2f\n", s.AtRiskProductsCount, s.AtRiskInventoryQty, s.AtRiskInventoryCost)
	fmt.Fprintf(tw, "expired\t%d\t%d\t%.2f\n", s.ExpiredProductsCount, s.ExpiredInventoryQty, s.ExpiredInventoryCost)
	fmt.Fprintf(tw, "total\t%d\t%d\t%.2f\n", s.TotalProductsCount, s.TotalInventoryQty, s.TotalInventoryCost)
	fmt.Fprintf(tw, "Expiring within a week: %d (%.2f)\n", s.ExpiringWithinWeekCount, s.ExpiringWithinWeekCost)
	fmt.Fprintf(tw, "At-risk cost: %.2f%%  Expired cost: %.2f%%\n", s.AtRiskCostPercentage, s.ExpiredCostPercentage)

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "DEAD STOCK RISK (%d)\n", len(snap.DeadStock))
	if len(snap.DeadStock) > 0 {
		fmt.Fprintln(tw, "PRODUCT\tNAME\tCATEGORY\tDAYS\tRISK\tDISCOUNT")
		for _, it := range snap.DeadStock {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%.0f%%\n",
				it.ProductID, it.Name, it.Category, it.DaysUntilExpiry, it.RiskScore, it.CurrentDiscountPercent)
		}
	}

	e := snap.Expired
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "EXPIRED: %d products, value %.2f\n", e.TotalExpiredProducts, e.TotalExpiredValue)
	categories := make([]string, 0, len(e.CategorySplit))
	for c := range e.CategorySplit {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%.2f%%\n", c, e.CategorySplit[c])
	}

	return tw.Flush()
}
