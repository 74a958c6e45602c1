package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/georgemunganga/localmarket/internal/api"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.15", "15%"},
		{"0.1", "10%"},
		{"0.125", "12.5%"},
		{"1", "100%"},
		{"0", "0%"},
		{"", "0%"},
		{"abc", "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPercent(tt.in))
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123.4", "£123.40"},
		{"0", "£0.00"},
		{"5", "£5.00"},
		{"19.999", "£20.00"},
		{" 7.5 ", "£7.50"},
		{"-3.2", "-£3.20"},
		{"", "£0.00"},
		{"n/a", "£0.00"},
		{"1234567.89", "£1,234,567.89"},
		{"90071992547409.93", "£90,071,992,547,409.93"},
		{"-90071992547409.93", "-£90,071,992,547,409.93"},
		{"99999999999999999999.5", "£99999999999999999999.50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.in))
		})
	}
}

func TestNewVendorStatsView_DoesNotMutateInput(t *testing.T) {
	stats := api.VendorStats{
		TodayOrders:    3,
		TodayRevenue:   "123.4",
		WeekRevenue:    "500",
		MonthRevenue:   "2000.5",
		TotalRevenue:   "900.1",
		CommissionRate: "0.15",
		PendingOrders:  2,
	}
	before := stats

	view := NewVendorStatsView(stats)

	assert.Equal(t, before, stats)
	assert.Equal(t, "15%", view.CommissionRate)
	assert.Equal(t, "£123.40", view.Cards[0].Value)
	assert.Equal(t, "3 orders today", view.Cards[0].Hint)
	// 123.40 - 15% = 104.89
	assert.Equal(t, "£104.89", view.TodayNet)
}
