package kernel_test

import (
	"testing"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a new UUID", func(t *testing.T) {
		id := kernel.NewUUID()

		assert.NotEmpty(t, id.String())
		assert.NoError(t, id.Validate())
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", id.String())
	})

	t.Run("should create unique UUIDs", func(t *testing.T) {
		orderID := kernel.NewUUID()
		courierID := kernel.NewUUID()

		assert.NotEqual(t, orderID.String(), courierID.String())
		assert.False(t, orderID.IsEqual(courierID))
	})
}

func TestUUIDFromString(t *testing.T) {
	orderID := "a7f3c250-41de-4f97-8f62-bd1e55e7c901"

	t.Run("should create UUID from valid string", func(t *testing.T) {
		id, err := kernel.UUIDFromString(orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, id.String())
		assert.NoError(t, id.Validate())
	})

	t.Run("should accept UUID with braces", func(t *testing.T) {
		id, err := kernel.UUIDFromString("{a7f3c250-41de-4f97-8f62-bd1e55e7c901}")

		require.NoError(t, err)
		assert.Equal(t, orderID, id.String())
	})

	t.Run("should accept UUID with urn prefix", func(t *testing.T) {
		id, err := kernel.UUIDFromString("urn:uuid:a7f3c250-41de-4f97-8f62-bd1e55e7c901")

		require.NoError(t, err)
		assert.Equal(t, orderID, id.String())
	})

	t.Run("should accept UUID without hyphens", func(t *testing.T) {
		id, err := kernel.UUIDFromString("a7f3c25041de4f978f62bd1e55e7c901")

		require.NoError(t, err)
		assert.Equal(t, orderID, id.String())
	})

	t.Run("should return error for invalid UUID format", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected string
		}{
			{"", "invalid UUID format"},
			{"FD-30001", "invalid UUID format"},
			{"a7f3c250-41de-4f97-8f62", "invalid UUID format"},
			{"a7f3c250-41de-4f97-8f62-bd1e55e7c901-extra", "invalid UUID format"},
			{"zzz3c250-41de-4f97-8f62-bd1e55e7c901", "invalid UUID format"},
			{"a7f3c250-41de-4f97-8f62-bd1e55e7c90g", "invalid UUID format"},
		}

		for _, tc := range testCases {
			_, err := kernel.UUIDFromString(tc.input)
			assert.Error(t, err, "expected error for input: %s", tc.input)
			assert.Contains(t, err.Error(), tc.expected)
		}
	})
}

func TestUUIDFromBytes(t *testing.T) {
	courierIDBytes := []byte{
		0xa7, 0xf3, 0xc2, 0x50, 0x41, 0xde, 0x4f, 0x97,
		0x8f, 0x62, 0xbd, 0x1e, 0x55, 0xe7, 0xc9, 0x01,
	}

	t.Run("should create UUID from valid bytes", func(t *testing.T) {
		id, err := kernel.UUIDFromBytes(courierIDBytes)

		require.NoError(t, err)
		assert.Equal(t, "a7f3c250-41de-4f97-8f62-bd1e55e7c901", id.String())
		assert.NoError(t, id.Validate())
	})

	t.Run("should return error for invalid byte length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0xa7, 0xf3, 0xc2})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("should return error for nil bytes", func(t *testing.T) {
		nilBytes := []byte{
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		}
		_, err := kernel.UUIDFromBytes(nilBytes)

		assert.Error(t, err)
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUID_String(t *testing.T) {
	t.Run("should return string representation", func(t *testing.T) {
		id := kernel.NewUUID()
		str := id.String()

		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, str)
	})

	t.Run("should return consistent string representation", func(t *testing.T) {
		id, _ := kernel.UUIDFromString("a7f3c250-41de-4f97-8f62-bd1e55e7c901")

		assert.Equal(t, "a7f3c250-41de-4f97-8f62-bd1e55e7c901", id.String())
		assert.Equal(t, id.String(), id.String())
	})
}

func TestUUID_Bytes(t *testing.T) {
	t.Run("should return underlying uuid.UUID", func(t *testing.T) {
		id := kernel.NewUUID()
		bytes := id.Bytes()

		assert.IsType(t, uuid.UUID{}, bytes)
		assert.Equal(t, id.String(), bytes.String())
	})
}

func TestUUID_IsEqual(t *testing.T) {
	t.Run("should return true for equal UUIDs", func(t *testing.T) {
		fromClaim, _ := kernel.UUIDFromString("a7f3c250-41de-4f97-8f62-bd1e55e7c901")
		fromRow, _ := kernel.UUIDFromString("a7f3c250-41de-4f97-8f62-bd1e55e7c901")

		assert.True(t, fromClaim.IsEqual(fromRow))
		assert.True(t, fromRow.IsEqual(fromClaim))
	})

	t.Run("should return false for different UUIDs", func(t *testing.T) {
		orderID := kernel.NewUUID()
		courierID := kernel.NewUUID()

		assert.False(t, orderID.IsEqual(courierID))
		assert.False(t, courierID.IsEqual(orderID))
	})

	t.Run("should handle zero value comparison", func(t *testing.T) {
		var id1 kernel.UUID
		var id2 kernel.UUID
		id3 := kernel.NewUUID()

		assert.True(t, id1.IsEqual(id2))
		assert.False(t, id1.IsEqual(id3))
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("should return nil for valid UUID", func(t *testing.T) {
		id := kernel.NewUUID()
		assert.NoError(t, id.Validate())
	})

	t.Run("should return error for zero value UUID", func(t *testing.T) {
		var id kernel.UUID
		err := id.Validate()

		assert.Error(t, err)
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})

	t.Run("should return error for nil UUID", func(t *testing.T) {
		id, _ := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
		err := id.Validate()

		assert.Error(t, err)
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUID_UsageInStruct(t *testing.T) {
	type Assignment struct {
		OrderID   kernel.UUID
		CourierID kernel.UUID
	}

	t.Run("should work as struct field", func(t *testing.T) {
		assignment := Assignment{
			OrderID:   kernel.NewUUID(),
			CourierID: kernel.NewUUID(),
		}

		assert.NoError(t, assignment.OrderID.Validate())
		assert.NoError(t, assignment.CourierID.Validate())
		assert.NotEmpty(t, assignment.OrderID.String())
	})

	t.Run("should detect uninitialized field", func(t *testing.T) {
		var assignment Assignment
		assert.Error(t, assignment.OrderID.Validate())
		assert.Error(t, assignment.CourierID.Validate())
	})
}

func TestUUID_Immutability(t *testing.T) {
	t.Run("modifying Bytes() result does not affect original UUID", func(t *testing.T) {
		original := kernel.NewUUID()
		originalString := original.String()

		bytes := original.Bytes()
		for i := range bytes {
			bytes[i] = 0xFF
		}

		assert.Equal(t, originalString, original.String())
		assert.NoError(t, original.Validate())

		modifiedUUID := uuid.UUID(bytes)
		assert.NotEqual(t, original.String(), modifiedUUID.String())
	})
}
