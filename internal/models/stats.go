package models

import "time"

type ChargeStatus string

const (
	ChargeSucceeded ChargeStatus = "succeeded"
	ChargePending   ChargeStatus = "pending"
	ChargeFailed    ChargeStatus = "failed"
)

// Charge is a raw payment record as returned by the payment provider.
// Amounts are in the minor currency unit (cents). Fee is zero when the
// provider did not attach balance transaction data.
type Charge struct {
	ID            string
	Amount        int64
	Currency      string
	Created       int64
	Status        ChargeStatus
	Fee           int64
	CustomerEmail string
	Description   string
}

// Refund mirrors Charge for refunded amounts. Fee is the refunded
// processing fee credited back to the merchant, in minor units.
type Refund struct {
	ID      string
	Amount  int64
	Created int64
	Fee     int64
}

// Payment is the row shape returned by the payments listing endpoint.
// Amount is in major units, Created in unix milliseconds.
type Payment struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Created       int64   `json:"created"`
	Description   string  `json:"description"`
	CustomerEmail string  `json:"customerEmail"`
	Status        string  `json:"status"`
}

// WeeklyStat is one week bucket, keyed by the ISO date of the Monday
// starting the week. NetRevenue = GrossRevenue - Refunds - Fees.
type WeeklyStat struct {
	Week         string  `json:"week"`
	Sales        int     `json:"sales"`
	GrossRevenue float64 `json:"grossRevenue"`
	Refunds      float64 `json:"refunds"`
	Fees         float64 `json:"fees"`
	NetRevenue   float64 `json:"netRevenue"`
}

// ExternalPurchase is a sale recorded outside the payment provider,
// sourced from the external revenues spreadsheet. JSON field names keep
// the French column headers the dashboard front-end expects.
type ExternalPurchase struct {
	Product        string     `json:"produit"`
	UnitPrice      float64    `json:"prixUnitaire"`
	Quantity       int        `json:"quantite"`
	Total          float64    `json:"total"`
	Buyer          string     `json:"acheteur"`
	TrainerContact string     `json:"contactFormateur"`
	FunderContact  string     `json:"contactFinanceur"`
	Framework      string     `json:"cadre"`
	Date           *time.Time `json:"date"`
	Remarks        string     `json:"remarques"`
}

type ExternalRevenueMetrics struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalPurchases  int     `json:"totalPurchases"`
	TotalLicenses   int     `json:"totalLicenses"`
	AveragePurchase float64 `json:"averagePurchase"`
}

// Satisfaction keeps full floating point precision; rounding for
// display belongs to the presentation layer.
type Satisfaction struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

type NPS struct {
	Score      int       `json:"score"`
	Promoters  int       `json:"promoters"`
	Passives   int       `json:"passives"`
	Detractors int       `json:"detractors"`
	Responses  []float64 `json:"responses"`
}

// Survey carries the free-form columns from the satisfaction sheet.
// Raw strings, no validation beyond non-empty.
type Survey struct {
	Seniorities         []string `json:"seniorities"`
	Sectors             []string `json:"sectors"`
	CompanySizes        []string `json:"companySizes"`
	Testimonials        []string `json:"testimonials"`
	AcquisitionChannels []string `json:"acquisitionChannels"`
}

// Stats is the full reporting payload assembled per request.
type Stats struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	GrossRevenue      float64 `json:"grossRevenue"`
	TotalRefunds      float64 `json:"totalRefunds"`
	TotalFees         float64 `json:"totalFees"`
	NetRevenue        float64 `json:"netRevenue"`
	TotalCustomers    int     `json:"totalCustomers"`
	AverageOrderValue float64 `json:"averageOrderValue"`

	LastUpdate  time.Time    `json:"lastUpdate"`
	WeeklyStats []WeeklyStat `json:"weeklyStats"`
	CurrentWeek WeeklyStat   `json:"currentWeek"`

	Satisfaction Satisfaction `json:"satisfaction"`
	NPS          NPS          `json:"nps"`
	Survey       Survey       `json:"survey"`

	ExternalRevenues        []ExternalPurchase     `json:"externalRevenues"`
	ExternalRevenuesMetrics ExternalRevenueMetrics `json:"externalRevenuesMetrics"`
}
