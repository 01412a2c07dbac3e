package wasteapi

// DietType is the diet classification of a product.
type DietType string

const (
	DietVegan         DietType = "vegan"
	DietVegetarian    DietType = "vegetarian"
	DietEggs          DietType = "eggs"
	DietNonVegetarian DietType = "non-vegetarian"
)

// MetricType selects quantity or cost figures in the weekly analytics.
type MetricType string

const (
	MetricQty  MetricType = "qty"
	MetricCost MetricType = "cost"
)

// RiskLevel is the dead-stock risk band. As a query filter it is the lowest
// band returned; the server default is RiskHigh.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

type Product struct {
	ProductID                string              `json:"product_id"`
	Name                     string              `json:"name"`
	Category                 string              `json:"category"`
	Brand                    string              `json:"brand"`
	DietType                 DietType            `json:"diet_type"`
	Allergens                []string            `json:"allergens"`
	ShelfLifeDays            int                 `json:"shelf_life_days"`
	PackagingDate            string              `json:"packaging_date"`
	ExpiryDate               string              `json:"expiry_date"`
	DaysUntilExpiry          int                 `json:"days_until_expiry"`
	WeightGrams              int                 `json:"weight_grams"`
	PriceMRP                 float64             `json:"price_mrp"`
	CostPrice                *float64            `json:"cost_price"`
	CurrentDiscountPercent   float64             `json:"current_discount_percent"`
	InventoryQuantity        int                 `json:"inventory_quantity"`
	InitialInventoryQuantity *int                `json:"initial_inventory_quantity"`
	TotalCost                *float64            `json:"total_cost"`
	RevenueGenerated         float64             `json:"revenue_generated"`
	StoreLocationLat         float64             `json:"store_location_lat"`
	StoreLocationLon         float64             `json:"store_location_lon"`
	IsDeadStockRisk          int                 `json:"is_dead_stock_risk"`
	DynamicPricing           *DynamicPricingInfo `json:"dynamic_pricing,omitempty"`
}

// AtRisk reports the server-computed dead-stock flag.
func (p Product) AtRisk() bool {
	return p.IsDeadStockRisk != 0
}

type User struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DietType        string   `json:"diet_type"`
	Allergies       []string `json:"allergies"`
	PrefersDiscount bool     `json:"prefers_discount"`
}

type TransactionRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type TransactionResponse struct {
	TransactionID      int64   `json:"transaction_id"`
	UserID             string  `json:"user_id"`
	ProductID          string  `json:"product_id"`
	Quantity           int     `json:"quantity"`
	PricePaidPerUnit   float64 `json:"price_paid_per_unit"`
	TotalPricePaid     float64 `json:"total_price_paid"`
	DiscountPercent    float64 `json:"discount_percent"`
	Message            string  `json:"message"`
	InventoryRemaining *int    `json:"inventory_remaining,omitempty"`
}

type MLFeatures struct {
	SalesVelocity      float64 `json:"sales_velocity"`
	InventoryTurnover  float64 `json:"inventory_turnover"`
	RiskScore          float64 `json:"risk_score"`
	DealEngagementRate float64 `json:"deal_engagement_rate"`
}

type DynamicPricingResponse struct {
	ProductID           string      `json:"product_id"`
	ProductName         string      `json:"product_name"`
	DaysUntilExpiry     int         `json:"days_until_expiry"`
	CurrentDiscount     float64     `json:"current_discount"`
	RecommendedDiscount float64     `json:"recommended_discount"`
	DiscountIncrease    float64     `json:"discount_increase"`
	UrgencyScore        float64     `json:"urgency_score"`
	Reasoning           string      `json:"reasoning"`
	CurrentPrice        float64     `json:"current_price"`
	RecommendedPrice    float64     `json:"recommended_price"`
	Savings             float64     `json:"savings"`
	IsDeadStockRisk     bool        `json:"is_dead_stock_risk"`
	MLFeatures          *MLFeatures `json:"ml_features,omitempty"`
}

// DynamicPricingInfo is the pricing block embedded in products, recommendations
// and dead-stock items when the server is asked for dynamic pricing.
type DynamicPricingInfo struct {
	UrgencyScore        float64 `json:"urgency_score"`
	CurrentDiscount     float64 `json:"current_discount"`
	RecommendedDiscount float64 `json:"recommended_discount"`
	DiscountIncrease    float64 `json:"discount_increase"`
	Reasoning           string  `json:"reasoning"`
	CurrentPrice        float64 `json:"current_price"`
	RecommendedPrice    float64 `json:"recommended_price"`
	PotentialSavings    float64 `json:"potential_savings"`
}

type Recommendation struct {
	ProductID              string              `json:"product_id"`
	ProductName            string              `json:"product_name"`
	Name                   string              `json:"name"`
	Category               string              `json:"category"`
	DaysUntilExpiry        int                 `json:"days_until_expiry"`
	Price                  float64             `json:"price"`
	PriceMRP               float64             `json:"price_mrp"`
	Discount               float64             `json:"discount"`
	CurrentDiscountPercent float64             `json:"current_discount_percent"`
	ExpiryDate             *string             `json:"expiry_date"`
	Score                  *float64            `json:"score"`
	IsDeadStockRisk        *int                `json:"is_dead_stock_risk"`
	DynamicPricing         *DynamicPricingInfo `json:"dynamic_pricing,omitempty"`
}

// AtRisk reports the dead-stock flag; a missing flag is not a risk.
func (r Recommendation) AtRisk() bool {
	return r.IsDeadStockRisk != nil && *r.IsDeadStockRisk != 0
}

type RecommendationsResponse struct {
	UserID          string           `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
}

type DeadStockRiskItem struct {
	ProductID                  string              `json:"product_id"`
	Name                       string              `json:"name"`
	Category                   string              `json:"category"`
	DaysUntilExpiry            int                 `json:"days_until_expiry"`
	CurrentDiscountPercent     float64             `json:"current_discount_percent"`
	PriceMRP                   float64             `json:"price_mrp"`
	InventoryQuantity          int                 `json:"inventory_quantity"`
	ExpiryDate                 string              `json:"expiry_date"`
	RiskScore                  float64             `json:"risk_score"`
	Threshold                  float64             `json:"threshold"`
	RiskLevel                  RiskLevel           `json:"risk_level,omitempty"`
	RecommendedDiscountPercent *float64            `json:"recommended_discount_percent,omitempty"`
	PotentialLoss              *float64            `json:"potential_loss,omitempty"`
	DynamicPricing             *DynamicPricingInfo `json:"dynamic_pricing,omitempty"`
}

type ExpiredCategoryDetail struct {
	Category          string  `json:"category"`
	ProductCount      int     `json:"product_count"`
	TotalQuantity     int     `json:"total_quantity"`
	TotalValue        float64 `json:"total_value"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

type ExpiredProductsResponse struct {
	TotalExpiredProducts int                     `json:"total_expired_products"`
	TotalExpiredValue    float64                 `json:"total_expired_value"`
	CategorySplit        map[string]float64      `json:"category_split"`
	CategoryDetails      []ExpiredCategoryDetail `json:"category_details"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

// HealthResponse carries both the documented status fields and the ones
// served by newer backends; absent fields stay empty.
type HealthResponse struct {
	Status         string `json:"status"`
	ModelStatus    string `json:"model_status,omitempty"`
	DatabaseStatus string `json:"database_status,omitempty"`
	APIVersion     string `json:"api_version,omitempty"`
	Version        string `json:"version,omitempty"`
	Description    string `json:"description,omitempty"`
	Database       string `json:"database,omitempty"`
	MLSystem       string `json:"ml_system,omitempty"`
}

type RefreshDataResponse struct {
	Message           string `json:"message"`
	Status            string `json:"status"`
	UsersCount        *int   `json:"users_count,omitempty"`
	ProductsCount     *int   `json:"products_count,omitempty"`
	TransactionsCount *int   `json:"transactions_count,omitempty"`
}

type APIIndex struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

type ProductPage struct {
	Products    []Product `json:"products"`
	TotalItems  int       `json:"total_items"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	PageSize    int       `json:"page_size"`
	HasNext     bool      `json:"has_next"`
	HasPrevious bool      `json:"has_previous"`
}

type CategoryInventorySummary struct {
	Category             string  `json:"category"`
	AliveProductsCount   int     `json:"alive_products_count"`
	AliveInventoryCost   float64 `json:"alive_inventory_cost"`
	AtRiskProductsCount  int     `json:"at_risk_products_count"`
	AtRiskInventoryCost  float64 `json:"at_risk_inventory_cost"`
	ExpiredProductsCount int     `json:"expired_products_count"`
	ExpiredInventoryCost float64 `json:"expired_inventory_cost"`
	TotalInventoryCost   float64 `json:"total_inventory_cost"`
}

type InventorySummaryResponse struct {
	AliveProductsCount      int                        `json:"alive_products_count"`
	AliveInventoryCost      float64                    `json:"alive_inventory_cost"`
	AliveInventoryQty       int                        `json:"alive_inventory_qty"`
	AtRiskProductsCount     int                        `json:"at_risk_products_count"`
	AtRiskInventoryCost     float64                    `json:"at_risk_inventory_cost"`
	AtRiskInventoryQty      int                        `json:"at_risk_inventory_qty"`
	ExpiredProductsCount    int                        `json:"expired_products_count"`
	ExpiredInventoryCost    float64                    `json:"expired_inventory_cost"`
	ExpiredInventoryQty     int                        `json:"expired_inventory_qty"`
	TotalProductsCount      int                        `json:"total_products_count"`
	TotalInventoryCost      float64                    `json:"total_inventory_cost"`
	TotalInventoryQty       int                        `json:"total_inventory_qty"`
	ExpiringWithinWeekCount int                        `json:"expiring_within_week_count"`
	ExpiringWithinWeekCost  float64                    `json:"expiring_within_week_cost"`
	AtRiskCostPercentage    float64                    `json:"at_risk_cost_percentage"`
	ExpiredCostPercentage   float64                    `json:"expired_cost_percentage"`
	ByCategory              []CategoryInventorySummary `json:"by_category,omitempty"`
}

type CategoryPerformance struct {
	Category        string  `json:"category"`
	TotalInventory  int     `json:"total_inventory"`
	InventoryValue  float64 `json:"inventory_value"`
	Revenue         float64 `json:"revenue"`
	Profit          float64 `json:"profit"`
	TurnoverRate    float64 `json:"turnover_rate"`
	AtRiskProducts  int     `json:"at_risk_products"`
	ExpiredProducts int     `json:"expired_products"`
}

// ProductPerformance rows come from two lists with different columns, so
// fields missing from one list stay zero.
type ProductPerformance struct {
	ProductID             string  `json:"product_id"`
	Name                  string  `json:"name"`
	Category              string  `json:"category"`
	Profit                float64 `json:"profit,omitempty"`
	InventoryQuantity     int     `json:"inventory_quantity,omitempty"`
	InventoryTurnoverRate float64 `json:"inventory_turnover_rate"`
}

type InventoryAnalyticsResponse struct {
	TotalProducts           int                   `json:"total_products"`
	TotalInventoryValue     float64               `json:"total_inventory_value"`
	TotalRevenue            float64               `json:"total_revenue"`
	ProfitMargin            float64               `json:"profit_margin"`
	InventoryTurnoverRate   float64               `json:"inventory_turnover_rate"`
	CategoriesPerformance   []CategoryPerformance `json:"categories_performance"`
	TopProfitableProducts   []ProductPerformance  `json:"top_profitable_products"`
	UnderperformingProducts []ProductPerformance  `json:"underperforming_products"`
}

type WeeklyInventoryWeek struct {
	WeekStart                   string     `json:"week_start"`
	WeekEnd                     string     `json:"week_end"`
	WeekNumber                  int        `json:"week_number"`
	TotalInventory              float64    `json:"total_inventory"`
	SoldInventory               float64    `json:"sold_inventory"`
	AliveProductsCount          int        `json:"alive_products_count"`
	MetricType                  MetricType `json:"metric_type"`
	InventoryUtilizationRatePct *float64   `json:"inventory_utilization_rate_pct,omitempty"`
	CostUtilizationRatePct      *float64   `json:"cost_utilization_rate_pct,omitempty"`
}

type WeeklyInventoryResponse struct {
	Weeks      []WeeklyInventoryWeek `json:"weeks"`
	Summary    map[string]any        `json:"summary"`
	MetricType MetricType            `json:"metric_type"`
}

type WeeklyExpiredWeek struct {
	WeekStart         string             `json:"week_start"`
	WeekEnd           string             `json:"week_end"`
	WeekNumber        int                `json:"week_number"`
	ExpiredCount      int                `json:"expired_count"`
	ExpiredValue      float64            `json:"expired_value"`
	ExpiredByCategory map[string]float64 `json:"expired_by_category"`
	MetricType        MetricType         `json:"metric_type"`
	WasteRatePct      *float64           `json:"waste_rate_pct,omitempty"`
}

type WeeklyExpiredResponse struct {
	Weeks      []WeeklyExpiredWeek `json:"weeks"`
	Summary    map[string]any      `json:"summary"`
	MetricType MetricType          `json:"metric_type"`
}
