package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"trackflow-service/tracking/models"
	"trackflow-service/tracking/store"
)

func newDirectory(t *testing.T) (*Directory, store.RecordStore) {
	t.Helper()
	st, err := store.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return NewDirectory(zap.NewNop(), st), st
}

func validInput() RegistrationInput {
	return RegistrationInput{
		ShipmentName:  "Global Express Alpha",
		ItemType:      "Electronics",
		RecipientName: "Emma Receive",
		Origin:        "New York, USA",
		Destination:   "London, UK",
		InitialStatus: "Pending",
		Weight:        "2.5",
	}
}

func TestRegisterCreatesShipmentWithSeedUpdate(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	shipment, err := d.Register(ctx, validInput())
	require.NoError(t, err)

	assert.Regexp(t, `^TRK\d{9}$`, shipment.TrackingNumber)
	assert.Equal(t, models.StatusPending, shipment.CurrentStatus)
	assert.Equal(t, 2.5, shipment.Weight)
	require.Len(t, shipment.Updates, 1)
	assert.Equal(t, models.StatusPending, shipment.Updates[0].Status)
	assert.Equal(t, "New York, USA", shipment.Updates[0].Location)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegistrationInput)
		field  string
	}{
		{name: "missing recipient", mutate: func(in *RegistrationInput) { in.RecipientName = " " }, field: "recipient_name"},
		{name: "missing origin", mutate: func(in *RegistrationInput) { in.Origin = "" }, field: "origin"},
		{name: "missing destination", mutate: func(in *RegistrationInput) { in.Destination = "" }, field: "destination"},
		{name: "bad status", mutate: func(in *RegistrationInput) { in.InitialStatus = "Lost Forever" }, field: "current_status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, st := newDirectory(t)
			in := validInput()
			tt.mutate(&in)

			_, err := d.Register(context.Background(), in)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)

			// Nothing was written.
			shipments, err := st.ListShipments(context.Background(), store.ListFilter{IncludeDeleted: true})
			require.NoError(t, err)
			assert.Empty(t, shipments)
		})
	}
}

func TestRegisterRejectsDuplicateNameCaseInsensitively(t *testing.T) {
	d, st := newDirectory(t)
	ctx := context.Background()

	_, err := d.Register(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.ShipmentName = "GLOBAL EXPRESS ALPHA"
	_, err = d.Register(ctx, in)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "shipment_name", validation.Field)

	shipments, err := st.ListShipments(ctx, store.ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, shipments, 1)
}

func TestRegisterAllowsNameOfArchivedShipment(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	first, err := d.Register(ctx, validInput())
	require.NoError(t, err)
	_, err = d.Archive(ctx, first.TrackingNumber)
	require.NoError(t, err)

	// Uniqueness only applies among non-deleted shipments.
	_, err = d.Register(ctx, validInput())
	assert.NoError(t, err)
}

func TestRegisterDefaultsWeightOnParseFailure(t *testing.T) {
	d, _ := newDirectory(t)

	in := validInput()
	in.ShipmentName = ""
	in.Weight = "heavy-ish"
	shipment, err := d.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Zero(t, shipment.Weight)
}

func TestListSearchIsCaseInsensitiveSubstring(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	in := validInput()
	shipment, err := d.Register(ctx, in)
	require.NoError(t, err)

	other := validInput()
	other.ShipmentName = "Other Cargo"
	other.RecipientName = "Sam Other"
	other.ItemType = "Books"
	_, err = d.Register(ctx, other)
	require.NoError(t, err)

	// Force a known tracking number through the store for the search check.
	st, err := store.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	d2 := NewDirectory(zap.NewNop(), st)
	require.NoError(t, st.CreateShipment(ctx, &models.Shipment{
		TrackingNumber: "TRK123456789",
		RecipientName:  "Emma Receive",
		CurrentStatus:  models.StatusPending,
	}))

	found, err := d2.List(ctx, "trk1", false)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "TRK123456789", found[0].TrackingNumber)

	byRecipient, err := d.List(ctx, "emma", false)
	require.NoError(t, err)
	require.Len(t, byRecipient, 1)
	assert.Equal(t, shipment.TrackingNumber, byRecipient[0].TrackingNumber)

	byItemType, err := d.List(ctx, "book", false)
	require.NoError(t, err)
	assert.Len(t, byItemType, 1)

	none, err := d.List(ctx, "zzz", false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListDeletedToggle(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	first, err := d.Register(ctx, validInput())
	require.NoError(t, err)

	second := validInput()
	second.ShipmentName = "Beta"
	archived, err := d.Register(ctx, second)
	require.NoError(t, err)
	_, err = d.Archive(ctx, archived.TrackingNumber)
	require.NoError(t, err)

	active, err := d.List(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.TrackingNumber, active[0].TrackingNumber)

	hidden, err := d.List(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, hidden, 1)
	assert.Equal(t, archived.TrackingNumber, hidden[0].TrackingNumber)
}

func TestUpdateStatusRewritesCurrentStatus(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	shipment, err := d.Register(ctx, validInput())
	require.NoError(t, err)

	updated, err := d.UpdateStatus(ctx, shipment.TrackingNumber, "out for delivery", "London, UK", "Final mile")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutForDelivery, updated.CurrentStatus)
	require.Len(t, updated.Updates, 2)
	assert.Equal(t, models.StatusOutForDelivery, updated.LatestUpdate().Status)

	_, err = d.UpdateStatus(ctx, shipment.TrackingNumber, "Vanished", "", "")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}
