package services_test

import (
	"testing"
	"time"

	"encomiendas-backend/models"
	"encomiendas-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnterprise() *models.Enterprise {
	return &models.Enterprise{
		Name:          "Courier Express S.A.",
		Ruc:           "1790012345001",
		Address:       "Av. Amazonas N21-147",
		Province:      "Pichincha",
		City:          "Quito",
		Establishment: "001",
		EmissionPoint: "001",
		Environment:   1,
	}
}

// mod-11 verifier, weights 2..7 cycling from the rightmost digit.
func checkDigit(digits string) int {
	sum, weight := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch check := 11 - sum%11; check {
	case 11:
		return 0
	case 10:
		return 1
	default:
		return check
	}
}

func TestAccessKey(t *testing.T) {
	ent := testEnterprise()
	issue := time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)
	key := services.AccessKey(issue, ent, 17)

	t.Run("49 digits", func(t *testing.T) {
		require.Len(t, key, 49)
		for _, r := range key {
			require.True(t, r >= '0' && r <= '9', "non-digit %q in key", r)
		}
	})

	t.Run("segments", func(t *testing.T) {
		assert.Equal(t, "07032025", key[:8])
		assert.Equal(t, "01", key[8:10])
		assert.Equal(t, ent.Ruc, key[10:23])
		assert.Equal(t, "1", key[23:24])
		assert.Equal(t, "001001", key[24:30])
		assert.Equal(t, "000000017", key[30:39])
		assert.Equal(t, "1", key[47:48])
	})

	t.Run("check digit", func(t *testing.T) {
		want := checkDigit(key[:48])
		assert.Equal(t, want, int(key[48]-'0'))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, key, services.AccessKey(issue, ent, 17))
	})

	t.Run("distinct sequentials yield distinct keys", func(t *testing.T) {
		assert.NotEqual(t, key, services.AccessKey(issue, ent, 18))
	})
}

func TestInvoiceNumber(t *testing.T) {
	ent := testEnterprise()
	assert.Equal(t, "001-001-000000017", services.InvoiceNumber(ent, 17))

	ent.Establishment = "002"
	ent.EmissionPoint = "010"
	assert.Equal(t, "002-010-000000001", services.InvoiceNumber(ent, 1))
}
