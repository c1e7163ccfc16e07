package transfers

import (
	"testing"

	"partnerportal/internal/crm"
	"partnerportal/pkg/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestNormalizeFullRecord(t *testing.T) {
	normalizer := NewNormalizer(zap.NewNop())

	raw := crm.Record{
		ID:             strPtr("rec1"),
		BookingRef:     strPtr("TR-0001"),
		PickupDateTime: strPtr("2025-04-22T09:00:00Z"),
		JourneyStatus:  strPtr("Driver Arrived"),
		Origin:         strPtr("DLM Airport"),
		Destination:    strPtr("Hotel Azura"),
		PassengerName:  strPtr("John Smith"),
		PassengerCount: intPtr(3),
		FlightNumber:   strPtr("XQ123"),
		VehicleType:    strPtr("Minivan"),
		Price:          floatPtr(85.5),
	}

	transfer := normalizer.Normalize(raw)

	assert.Equal(t, "rec1", transfer.ID)
	assert.Equal(t, "rec1", transfer.SourceRecordID)
	assert.Equal(t, "TR-0001", transfer.BookingRef)
	assert.Equal(t, models.StatusPending, transfer.Status)
	assert.Equal(t, "Apr 22, 2025", transfer.Date)
	assert.NotEqual(t, "N/A", transfer.PickupTime)
	assert.Equal(t, 3, transfer.PassengerCount)
	assert.Equal(t, "85.50", transfer.Price)
}

func TestNormalizeEmptyRecordNeverFails(t *testing.T) {
	normalizer := NewNormalizer(zap.NewNop())

	transfer := normalizer.Normalize(crm.Record{})

	assert.NotEmpty(t, transfer.ID, "missing remote id must be replaced with a generated one")
	assert.Empty(t, transfer.SourceRecordID)
	assert.Equal(t, models.StatusPending, transfer.Status)
	assert.Equal(t, "Invalid date", transfer.Date)
	assert.Equal(t, "N/A", transfer.PickupTime)
	assert.Equal(t, "N/A", transfer.Price)
	assert.Equal(t, 1, transfer.PassengerCount)
	assert.Nil(t, transfer.PickupGeo)
}

func TestNormalizeGeneratedIDsDiffer(t *testing.T) {
	normalizer := NewNormalizer(zap.NewNop())

	first := normalizer.Normalize(crm.Record{})
	second := normalizer.Normalize(crm.Record{})

	assert.NotEqual(t, first.ID, second.ID)
}

func TestNormalizeUnknownStatusDefaultsToPending(t *testing.T) {
	normalizer := NewNormalizer(zap.NewNop())

	raw := crm.Record{
		ID:            strPtr("rec1"),
		JourneyStatus: strPtr("Beamed Up"),
	}

	transfer := normalizer.Normalize(raw)

	assert.Equal(t, models.StatusPending, transfer.Status)
}

func TestNormalizeUnparseableDatetime(t *testing.T) {
	normalizer := NewNormalizer(zap.NewNop())

	raw := crm.Record{
		ID:             strPtr("rec1"),
		PickupDateTime: strPtr("next tuesday-ish"),
	}

	transfer := normalizer.Normalize(raw)

	assert.Equal(t, "Invalid date", transfer.Date)
	assert.Equal(t, "N/A", transfer.PickupTime)
}

func TestNormalizeSalesforceDatetimeLayout(t *testing.T) {
	normalizer := NewNormalizer(zap.NewNop())

	raw := crm.Record{
		ID:             strPtr("rec1"),
		PickupDateTime: strPtr("2025-04-22T09:00:00.000+0000"),
	}

	transfer := normalizer.Normalize(raw)

	assert.Equal(t, "Apr 22, 2025", transfer.Date)
	assert.NotEqual(t, "N/A", transfer.PickupTime)
}

func TestNormalizeGeoRequiresBothCoordinates(t *testing.T) {
	normalizer := NewNormalizer(zap.NewNop())

	lat, lng := 36.7131, 28.7924

	tests := []struct {
		name string
		geo  *crm.Geolocation
		want *models.Geolocation
	}{
		{"both present", &crm.Geolocation{Latitude: &lat, Longitude: &lng}, &models.Geolocation{Latitude: lat, Longitude: lng}},
		{"latitude only", &crm.Geolocation{Latitude: &lat}, nil},
		{"longitude only", &crm.Geolocation{Longitude: &lng}, nil},
		{"absent field", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfer := normalizer.Normalize(crm.Record{ID: strPtr("rec1"), PickupGeo: tt.geo})
			assert.Equal(t, tt.want, transfer.PickupGeo)
		})
	}
}
