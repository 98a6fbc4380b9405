package services_test

import (
	"testing"

	"encomiendas-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDocNumber(t *testing.T) {
	assert.Equal(t, "001-001-000000001", services.FormatDocNumber(services.ReceptionPrefix, 1))
	assert.Equal(t, "002-005-000012345", services.FormatDocNumber("002-005", 12345))
	assert.Equal(t, "001-001-999999999", services.FormatDocNumber(services.ReceptionPrefix, 999999999))
}

func TestParseDocNumber(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		seq, err := services.ParseDocNumber("001-001-000000042")
		require.NoError(t, err)
		assert.Equal(t, 42, seq)
	})

	t.Run("malformed inputs rejected", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"001-001-42",
			"1-1-000000042",
			"001001000000042",
			"001-001-0000000042",
			"abc-def-ghijklmno",
		} {
			_, err := services.ParseDocNumber(bad)
			assert.Error(t, err, "input %q", bad)
		}
	})
}

func TestNextDocNumber(t *testing.T) {
	t.Run("empty last starts at one", func(t *testing.T) {
		next, err := services.NextDocNumber(services.ReceptionPrefix, "")
		require.NoError(t, err)
		assert.Equal(t, "001-001-000000001", next)
	})

	t.Run("successor of the maximum", func(t *testing.T) {
		next, err := services.NextDocNumber(services.ReceptionPrefix, "001-001-000000005")
		require.NoError(t, err)
		assert.Equal(t, "001-001-000000006", next)
	})

	t.Run("malformed last propagates", func(t *testing.T) {
		_, err := services.NextDocNumber(services.ReceptionPrefix, "001-001-5")
		assert.Error(t, err)
	})
}
