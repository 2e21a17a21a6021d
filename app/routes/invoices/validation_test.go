package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLineItems(t *testing.T) {
	items, errs := validateLineItems([]lineItemPayload{
		{Date: "2025-03-10", Description: "Work at Acme Builders", RateType: "Per Hour", Quantity: 7.5, UnitPrice: 20},
		{Date: "2025-03-11", Description: "Call-out", Quantity: 1, UnitPrice: 45},
	})

	require.Nil(t, errs)
	require.Len(t, items, 2)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), items[0].Date)
	assert.Equal(t, 150.0, items[0].Amount())
}

func TestValidateLineItemsEmpty(t *testing.T) {
	items, errs := validateLineItems(nil)
	assert.Nil(t, items)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "items")
}

func TestValidateLineItemsFieldErrors(t *testing.T) {
	items, errs := validateLineItems([]lineItemPayload{
		{Date: "10/03/2025", Description: "", RateType: "Per Fortnight", Quantity: -1, UnitPrice: -5},
		{Date: "2025-03-11", Description: "Valid row", Quantity: 1, UnitPrice: 10},
	})

	assert.Nil(t, items, "no partial payload on validation failure")
	require.NotNil(t, errs)
	assert.Contains(t, errs, "items[0].date")
	assert.Contains(t, errs, "items[0].description")
	assert.Contains(t, errs, "items[0].rate_type")
	assert.Contains(t, errs, "items[0].quantity")
	assert.Contains(t, errs, "items[0].unit_price")
	assert.NotContains(t, errs, "items[1].date")
}
