package transfers

import (
	"fmt"
	"time"

	"partnerportal/internal/crm"
	"partnerportal/pkg/dates"
	"partnerportal/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pickupTimeLayouts are the datetime shapes the CRM has been seen emitting.
var pickupTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
}

// Normalizer maps raw CRM records into Transfers. It never fails a record:
// every field-level parse problem degrades that one field to a documented
// fallback instead.
type Normalizer struct {
	log *zap.Logger
}

func NewNormalizer(log *zap.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize converts one raw record. The returned ID is the remote id when
// present, otherwise a generated one stable for the lifetime of this result
// set, so list rendering always has a usable key.
func (n *Normalizer) Normalize(raw crm.Record) models.Transfer {
	transfer := models.Transfer{
		ID:             stringOr(raw.ID, uuid.NewString()),
		BookingRef:     stringOr(raw.BookingRef, ""),
		SourceRecordID: stringOr(raw.ID, ""),
		Origin:         stringOr(raw.Origin, ""),
		Destination:    stringOr(raw.Destination, ""),
		PickupAddress:  stringOr(raw.PickupAddress, ""),
		DropoffAddress: stringOr(raw.DropoffAddress, ""),
		PassengerName:  stringOr(raw.PassengerName, ""),
		PassengerPhone: stringOr(raw.PassengerPhone, ""),
		FlightNumber:   stringOr(raw.FlightNumber, ""),
		VehicleType:    stringOr(raw.VehicleType, ""),
		Notes:          stringOr(raw.Notes, ""),
		CreatedAt:      stringOr(raw.CreatedDate, ""),
		PassengerCount: 1,
	}

	if raw.PassengerCount != nil && *raw.PassengerCount > 0 {
		transfer.PassengerCount = *raw.PassengerCount
	}

	transfer.Date, transfer.PickupTime = n.normalizePickup(raw)
	transfer.Status = n.normalizeStatus(raw)
	transfer.Price = normalizePrice(raw.Price)
	transfer.PickupGeo = normalizeGeo(raw.PickupGeo)
	transfer.DropoffGeo = normalizeGeo(raw.DropoffGeo)

	return transfer
}

func (n *Normalizer) normalizePickup(raw crm.Record) (date, pickupTime string) {
	if raw.PickupDateTime == nil {
		return dates.InvalidDateFallback, "N/A"
	}

	parsed, err := parsePickupDateTime(*raw.PickupDateTime)
	if err != nil {
		n.log.Warn("unparseable pickup datetime",
			zap.String("value", *raw.PickupDateTime),
			zap.String("record", stringOr(raw.ID, "unknown")),
		)
		return dates.InvalidDateFallback, "N/A"
	}

	return dates.FormatDisplayDate(parsed, dates.InvalidDateFallback), parsed.Format("3:04 PM")
}

func (n *Normalizer) normalizeStatus(raw crm.Record) models.Status {
	source := stringOr(raw.JourneyStatus, "")
	status, known := models.TranslateStatus(source)
	if !known {
		n.log.Warn("unknown journey status, defaulting to pending",
			zap.String("value", source),
			zap.String("record", stringOr(raw.ID, "unknown")),
		)
	}
	return status
}

func parsePickupDateTime(value string) (time.Time, error) {
	for _, layout := range pickupTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Local(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", value)
}

func normalizePrice(price *float64) string {
	if price == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *price)
}

// normalizeGeo passes coordinates through only when both are present; a half
// coordinate is dropped rather than zero-filled.
func normalizeGeo(geo *crm.Geolocation) *models.Geolocation {
	if geo == nil || geo.Latitude == nil || geo.Longitude == nil {
		return nil
	}
	return &models.Geolocation{
		Latitude:  *geo.Latitude,
		Longitude: *geo.Longitude,
	}
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
