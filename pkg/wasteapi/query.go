package wasteapi

import (
	"net/url"
	"strconv"
	"strings"
)

// Ptr returns a pointer to v, for filling optional filter fields.
func Ptr[T any](v T) *T {
	return &v
}

// ProductFilter holds the optional /products filters. A nil field is left
// out of the request; a non-nil field is sent as-is, zero values included.
type ProductFilter struct {
	Category           *string
	DietType           *string
	MinDiscount        *float64
	MaxDaysUntilExpiry *int
}

// ProductPageQuery adds the paging parameters understood by paginating
// backends to ProductFilter.
type ProductPageQuery struct {
	ProductFilter
	IncludeExpired *bool
	Page           *int
	PageSize       *int
	Dynamic        *bool
}

// RecommendationsParams.N is the number of results; 0 means server default (10).
// Dynamic asks for a pricing block on each recommendation.
type RecommendationsParams struct {
	N       int
	Dynamic *bool
}

// DeadStockQuery filters /dead_stock_risk. Empty fields are omitted, so the
// server defaults (all categories, HIGH and above) apply.
type DeadStockQuery struct {
	Category     string
	MinRiskLevel RiskLevel
	Dynamic      *bool
}

// WeeklyQuery drives /weekly_inventory and /weekly_expired. Zero values are
// omitted so the server defaults (6 weeks, qty) apply.
type WeeklyQuery struct {
	WeeksBack  int
	MetricType MetricType
}

type queryParam struct {
	key   string
	value string
}

// query keeps parameters in insertion order, unlike url.Values.
type query []queryParam

func (q *query) add(key, value string) {
	*q = append(*q, queryParam{key: key, value: value})
}

func (q *query) addString(key string, v *string) {
	if v != nil {
		q.add(key, *v)
	}
}

func (q *query) addFloat(key string, v *float64) {
	if v != nil {
		q.add(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

func (q *query) addInt(key string, v *int) {
	if v != nil {
		q.add(key, strconv.Itoa(*v))
	}
}

func (q *query) addBool(key string, v *bool) {
	if v != nil {
		q.add(key, strconv.FormatBool(*v))
	}
}

func (q query) encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// withQuery appends "?<query>" to path only when there is something to send.
func withQuery(path string, q query) string {
	if enc := q.encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func (f ProductFilter) query() query {
	var q query
	q.addString("category", f.Category)
	q.addString("diet_type", f.DietType)
	q.addFloat("min_discount", f.MinDiscount)
	q.addInt("max_days_until_expiry", f.MaxDaysUntilExpiry)
	return q
}

func (p ProductPageQuery) query() query {
	q := p.ProductFilter.query()
	q.addBool("include_expired", p.IncludeExpired)
	q.addInt("page", p.Page)
	q.addInt("page_size", p.PageSize)
	q.addBool("dynamic", p.Dynamic)
	return q
}

func (p RecommendationsParams) query() query {
	var q query
	if p.N != 0 {
		q.add("n", strconv.Itoa(p.N))
	}
	q.addBool("dynamic", p.Dynamic)
	return q
}

func (d DeadStockQuery) query() query {
	var q query
	if d.Category != "" {
		q.add("category", d.Category)
	}
	if d.MinRiskLevel != "" {
		q.add("min_risk_level", string(d.MinRiskLevel))
	}
	q.addBool("dynamic", d.Dynamic)
	return q
}

func (w WeeklyQuery) query() query {
	var q query
	if w.WeeksBack != 0 {
		q.add("weeks_back", strconv.Itoa(w.WeeksBack))
	}
	if w.MetricType != "" {
		q.add("metric_type", string(w.MetricType))
	}
	return q
}
