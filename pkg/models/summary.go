package models

import "fmt"

// Summary holds the server-computed aggregate over the current status and
// date-range filters. It is independent of the search term and pagination.
type Summary struct {
	TotalRecords     int     `json:"total_records"`
	TotalRevenue     float64 `json:"total_revenue"`
	FormattedRevenue string  `json:"formatted_revenue"`
	AccountName      string  `json:"account_name,omitempty"`
}

// NewSummary builds a Summary with its display form of the revenue.
func NewSummary(totalRecords int, totalRevenue float64, accountName string) Summary {
	return Summary{
		TotalRecords:     totalRecords,
		TotalRevenue:     totalRevenue,
		FormattedRevenue: fmt.Sprintf("€%.2f", totalRevenue),
		AccountName:      accountName,
	}
}
