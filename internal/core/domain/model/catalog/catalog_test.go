package catalog_test

import (
	"testing"

	"dispatcher/internal/core/domain/model/catalog"
	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOrder(t *testing.T, id string, units int) catalog.Order {
	t.Helper()
	order, err := catalog.NewOrder(id, "Customer "+id, "Address "+id, units, false)
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("creates_valid_order", func(t *testing.T) {
		order, err := catalog.NewOrder("70509", "Jane Miller", "12 Oak St", 10, true)

		require.NoError(t, err)
		require.NoError(t, order.Validate())
		assert.Equal(t, "70509", order.ID())
		assert.Equal(t, "Jane Miller", order.CustomerName())
		assert.Equal(t, "12 Oak St", order.DeliveryAddress())
		assert.Equal(t, 10, order.Units())
		assert.True(t, order.EarlyDeliveryOK())
	})

	t.Run("rejects_empty_id", func(t *testing.T) {
		_, err := catalog.NewOrder("", "Jane Miller", "12 Oak St", 10, false)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects_non_positive_units", func(t *testing.T) {
		_, err := catalog.NewOrder("70509", "Jane Miller", "12 Oak St", 0, false)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var order catalog.Order

		err := order.Validate()

		require.Error(t, err)
		assert.Equal(t, catalog.ErrOrderIsNotConstructed, err)
	})
}

func TestNewCatalog(t *testing.T) {
	t.Run("creates_catalog_preserving_order", func(t *testing.T) {
		orders := []catalog.Order{
			mustOrder(t, "70509", 10),
			mustOrder(t, "70592", 5),
		}

		c, err := catalog.NewCatalog(orders)

		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
		assert.Equal(t, "70509", c.Orders()[0].ID())
		assert.Equal(t, "70592", c.Orders()[1].ID())
	})

	t.Run("allows_empty_catalog", func(t *testing.T) {
		c, err := catalog.NewCatalog(nil)

		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("rejects_duplicate_order_ids", func(t *testing.T) {
		orders := []catalog.Order{
			mustOrder(t, "70509", 10),
			mustOrder(t, "70509", 5),
		}

		_, err := catalog.NewCatalog(orders)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_unconstructed_order", func(t *testing.T) {
		_, err := catalog.NewCatalog([]catalog.Order{{}})

		require.Error(t, err)
		assert.Equal(t, catalog.ErrOrderIsNotConstructed, err)
	})
}

func TestCatalog_NodeOf(t *testing.T) {
	c, err := catalog.NewCatalog([]catalog.Order{
		mustOrder(t, "70509", 10),
		mustOrder(t, "70592", 5),
		mustOrder(t, "70610", 7),
	})
	require.NoError(t, err)

	t.Run("node_is_position_plus_one", func(t *testing.T) {
		node, nodeErr := c.NodeOf("70509")
		require.NoError(t, nodeErr)
		assert.Equal(t, kernel.Node(1), node)

		node, nodeErr = c.NodeOf("70610")
		require.NoError(t, nodeErr)
		assert.Equal(t, kernel.Node(3), node)
	})

	t.Run("unknown_order_returns_not_found", func(t *testing.T) {
		_, nodeErr := c.NodeOf("99999")

		require.Error(t, nodeErr)
		require.ErrorIs(t, nodeErr, errs.ErrObjectNotFound)
	})
}

func TestCatalog_Get(t *testing.T) {
	c, err := catalog.NewCatalog([]catalog.Order{
		mustOrder(t, "70509", 10),
	})
	require.NoError(t, err)

	t.Run("returns_order_by_id", func(t *testing.T) {
		order, getErr := c.Get("70509")

		require.NoError(t, getErr)
		assert.Equal(t, 10, order.Units())
	})

	t.Run("unknown_order_returns_not_found", func(t *testing.T) {
		_, getErr := c.Get("99999")

		require.Error(t, getErr)
		require.ErrorIs(t, getErr, errs.ErrObjectNotFound)
	})
}
