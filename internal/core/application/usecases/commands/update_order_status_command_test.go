package commands_test

import (
	"testing"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand(t *testing.T) {
	t.Run("should create command and translate the external vocabulary", func(t *testing.T) {
		cmd, err := commands.NewUpdateOrderStatusCommand(
			kernel.NewUUID(), "PickedUp", kernel.NewUUID(), "")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, order.OutForDelivery, cmd.TargetStatus())
	})

	t.Run("should keep the cancellation reason", func(t *testing.T) {
		cmd, err := commands.NewUpdateOrderStatusCommand(
			kernel.NewUUID(), "Cancelled", kernel.NewUUID(), "kitchen closed early")

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, cmd.TargetStatus())
		assert.Equal(t, "kitchen closed early", cmd.Reason())
	})

	t.Run("should reject names outside the external vocabulary", func(t *testing.T) {
		for _, name := range []string{"", "OutForDelivery", "ready"} {
			_, err := commands.NewUpdateOrderStatusCommand(
				kernel.NewUUID(), name, kernel.NewUUID(), "")

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})

	t.Run("should reject unconstructed ids", func(t *testing.T) {
		_, err := commands.NewUpdateOrderStatusCommand(
			kernel.UUID{}, "Ready", kernel.NewUUID(), "")
		require.Error(t, err)

		_, err = commands.NewUpdateOrderStatusCommand(
			kernel.NewUUID(), "Ready", kernel.UUID{}, "")
		require.Error(t, err)
	})

	t.Run("zero value command fails validation", func(t *testing.T) {
		var cmd commands.UpdateOrderStatusCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrUpdateOrderStatusCommandIsNotConstructed)
	})
}
