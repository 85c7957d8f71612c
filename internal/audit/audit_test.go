package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/testsupport"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

func TestDispatcher_PersistsOnClose(t *testing.T) {
	gdb := testsupport.NewDB(t)
	d := NewDispatcher(New(gdb), logging.Discard())

	d.Dispatch(Event{
		BarbershopID: "shop-1",
		CustomerID:   "cust-1",
		Action:       "appointment_cancelled",
		Entity:       "appointment",
		EntityID:     "ap-1",
		Metadata:     map[string]any{"refund": 1000},
	})
	d.Dispatch(Event{BarbershopID: "shop-1", Action: "subscription_created"})
	d.Close()

	var rows []models.AuditLog
	require.NoError(t, gdb.Order("action ASC").Find(&rows).Error)
	require.Len(t, rows, 2)

	assert.Equal(t, "appointment_cancelled", rows[0].Action)
	require.NotNil(t, rows[0].CustomerID)
	assert.Equal(t, "cust-1", *rows[0].CustomerID)
	assert.JSONEq(t, `{"refund":1000}`, rows[0].Metadata)

	assert.Nil(t, rows[1].CustomerID)
	assert.Nil(t, rows[1].EntityID)
	assert.Empty(t, rows[1].Metadata)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "x"})
		d.Close()
	})
}
