package transfers

import (
	"strings"

	"partnerportal/pkg/dates"
	"partnerportal/pkg/models"

	"go.uber.org/zap"
)

// filterTransfers derives the visible set from the full set. The date filter
// runs first and the search filter narrows its result; the two commute in
// outcome, the fixed order exists so a miscounted set is debuggable.
func filterTransfers(full []models.Transfer, r models.DateRange, search string, log *zap.Logger) []models.Transfer {
	visible := filterByDate(full, r, log)

	if term := strings.TrimSpace(search); term != "" {
		visible = filterBySearch(visible, term)
	}

	return visible
}

// filterByDate keeps records whose pickup date falls inside the range. A
// record whose date no longer parses is excluded and logged rather than
// silently kept; status filtering already happened server-side.
func filterByDate(full []models.Transfer, r models.DateRange, log *zap.Logger) []models.Transfer {
	visible := make([]models.Transfer, 0, len(full))

	for _, transfer := range full {
		parsed, err := dates.ParseDisplayDate(transfer.Date)
		if err != nil {
			log.Warn("excluding transfer with unparseable date",
				zap.String("id", transfer.ID),
				zap.String("date", transfer.Date),
			)
			continue
		}
		if dates.InRange(parsed, r.Start, r.End) {
			visible = append(visible, transfer)
		}
	}

	return visible
}

// filterBySearch keeps records where any searchable field contains the term,
// case-insensitively.
func filterBySearch(transfers []models.Transfer, term string) []models.Transfer {
	term = strings.ToLower(term)

	visible := make([]models.Transfer, 0, len(transfers))
	for _, transfer := range transfers {
		if matchesSearch(transfer, term) {
			visible = append(visible, transfer)
		}
	}

	return visible
}

func matchesSearch(transfer models.Transfer, lowerTerm string) bool {
	for _, field := range []string{
		transfer.PassengerName,
		transfer.BookingRef,
		transfer.FlightNumber,
		transfer.Origin,
		transfer.Destination,
	} {
		if field != "" && strings.Contains(strings.ToLower(field), lowerTerm) {
			return true
		}
	}
	return false
}
