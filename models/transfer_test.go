package models_test

import (
	"testing"

	"encomiendas-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestTransferStatusRollup(t *testing.T) {
	confirmed := func(ids ...uint) []models.SackPackage {
		out := make([]models.SackPackage, 0, len(ids))
		for _, id := range ids {
			out = append(out, models.SackPackage{PackageID: id, Confirmed: true})
		}
		return out
	}

	t.Run("no sacks", func(t *testing.T) {
		transfer := models.Transfer{}
		assert.Equal(t, models.TransferStatusPending, transfer.Status())
	})

	t.Run("one pending package blocks confirmation", func(t *testing.T) {
		transfer := models.Transfer{Sacks: []models.Sack{
			{Number: 1, Packages: confirmed(1, 2)},
			{Number: 2, Packages: []models.SackPackage{{PackageID: 3}}},
		}}
		assert.Equal(t, models.TransferStatusPending, transfer.Status())
	})

	t.Run("all confirmed across sacks", func(t *testing.T) {
		transfer := models.Transfer{Sacks: []models.Sack{
			{Number: 1, Packages: confirmed(1, 2)},
			{Number: 2, Packages: confirmed(3)},
		}}
		assert.Equal(t, models.TransferStatusConfirmed, transfer.Status())
	})
}
