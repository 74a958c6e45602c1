package ui

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/georgemunganga/localmarket/internal/api"
)

var printer = message.NewPrinter(language.BritishEnglish)

// StatCard is one tile on the vendor dashboard.
type StatCard struct {
	Label string
	Value string
	Hint  string
}

// VendorStatsView is the display form of api.VendorStats. The source
// numbers stay strings; they are parsed here only to format them.
type VendorStatsView struct {
	Cards          []StatCard
	CommissionRate string
	TodayNet       string
}

// NewVendorStatsView formats stats for display. stats is not modified.
func NewVendorStatsView(stats api.VendorStats) VendorStatsView {
	today := parseDecimal(stats.TodayRevenue)
	rate := parseDecimal(stats.CommissionRate)
	net := today.Sub(today.Mul(rate))

	return VendorStatsView{
		Cards: []StatCard{
			{Label: "Today's revenue", Value: FormatCurrency(stats.TodayRevenue), Hint: printer.Sprintf("%d orders today", stats.TodayOrders)},
			{Label: "This week", Value: FormatCurrency(stats.WeekRevenue)},
			{Label: "This month", Value: FormatCurrency(stats.MonthRevenue)},
			{Label: "All time", Value: FormatCurrency(stats.TotalRevenue)},
			{Label: "Pending orders", Value: printer.Sprintf("%d", stats.PendingOrders)},
			{Label: "Active products", Value: printer.Sprintf("%d", stats.ActiveProducts), Hint: printer.Sprintf("of %d listed", stats.TotalProducts)},
			{Label: "Buying groups", Value: printer.Sprintf("%d", stats.ActiveBuyingGroups), Hint: "active"},
		},
		CommissionRate: FormatPercent(stats.CommissionRate),
		TodayNet:       formatMoney(net),
	}
}

// FormatCurrency renders a decimal string as pounds, e.g. "123.4" -> "£123.40".
// Unparseable input renders as £0.00.
func FormatCurrency(amount string) string {
	return formatMoney(parseDecimal(amount))
}

// FormatPercent renders a fractional rate, e.g. "0.15" -> "15%". At most one
// decimal place is shown and trailing zeros are dropped.
func FormatPercent(rate string) string {
	return parseDecimal(rate).Shift(2).Round(1).String() + "%"
}

func formatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	whole, fraction := fixed[:len(fixed)-3], fixed[len(fixed)-2:]
	if d.LessThan(maxGrouped) {
		whole = printer.Sprintf("%d", d.IntPart())
	}
	return sign + "£" + whole + "." + fraction
}

// maxGrouped bounds the amounts whose whole part fits an int64 for grouping.
var maxGrouped = decimal.NewFromInt(math.MaxInt64)

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
