package services_test

import (
	"testing"

	"encomiendas-backend/models"
	"encomiendas-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func twoPackageSack() models.Sack {
	return models.Sack{
		ID:     1,
		Number: 1,
		Seal:   strptr("S-001"),
		Packages: []models.SackPackage{
			{ID: 10, PackageID: 100, Package: models.Package{ID: 100, Pounds: 10, Kilograms: 4.54}},
			{ID: 11, PackageID: 101, Confirmed: true, Package: models.Package{ID: 101, Pounds: 5, Kilograms: 2.27}},
		},
	}
}

func TestApplySackUpdate(t *testing.T) {
	t.Run("confirmed set is authoritative", func(t *testing.T) {
		// Package 100 pending, 101 confirmed. Submitting only 100 must flip
		// both: 100 confirmed, 101 back to pending.
		sack := twoPackageSack()
		err := services.ApplySackUpdate(&sack, services.SackUpdateInput{
			Number:              1,
			Seal:                strptr("S-002"),
			ConfirmedPackageIDs: []uint{100},
		})
		require.NoError(t, err)

		assert.True(t, sack.Packages[0].Confirmed)
		assert.False(t, sack.Packages[1].Confirmed)
		assert.Equal(t, "S-002", *sack.Seal)
	})

	t.Run("empty set resets every package to pending", func(t *testing.T) {
		sack := twoPackageSack()
		err := services.ApplySackUpdate(&sack, services.SackUpdateInput{Number: 1})
		require.NoError(t, err)
		assert.False(t, sack.Packages[0].Confirmed)
		assert.False(t, sack.Packages[1].Confirmed)
		assert.Nil(t, sack.Seal)
	})

	t.Run("foreign package id rejected, state untouched", func(t *testing.T) {
		sack := twoPackageSack()
		err := services.ApplySackUpdate(&sack, services.SackUpdateInput{
			Number:              1,
			ConfirmedPackageIDs: []uint{100, 999},
		})
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.False(t, sack.Packages[0].Confirmed)
		assert.True(t, sack.Packages[1].Confirmed)
	})
}

func TestTransferStatus(t *testing.T) {
	t.Run("pending while any package is pending", func(t *testing.T) {
		transfer := models.Transfer{Sacks: []models.Sack{twoPackageSack()}}
		assert.Equal(t, models.TransferStatusPending, transfer.Status())
	})

	t.Run("confirmed when every package in every sack is confirmed", func(t *testing.T) {
		sack := twoPackageSack()
		sack.Packages[0].Confirmed = true
		other := models.Sack{
			Number:   2,
			Packages: []models.SackPackage{{PackageID: 200, Confirmed: true}},
		}
		transfer := models.Transfer{Sacks: []models.Sack{sack, other}}
		assert.Equal(t, models.TransferStatusConfirmed, transfer.Status())
	})

	t.Run("empty transfer stays pending", func(t *testing.T) {
		transfer := models.Transfer{Sacks: []models.Sack{{Number: 1}}}
		assert.Equal(t, models.TransferStatusPending, transfer.Status())
	})
}

func TestBuildTransferDetails(t *testing.T) {
	transfer := models.Transfer{
		ID:       3,
		Number:   strptr("T-0009"),
		FromCity: "Quito",
		ToCity:   "Madrid",
		Sacks:    []models.Sack{twoPackageSack()},
	}

	details := services.BuildTransferDetails(&transfer)
	require.Len(t, details.Sacks, 1)
	sack := details.Sacks[0]

	assert.Equal(t, models.TransferStatusPending, details.Status)
	require.Len(t, sack.Pending, 1)
	require.Len(t, sack.Confirmed, 1)
	assert.Equal(t, uint(100), sack.Pending[0].ID)
	assert.Equal(t, uint(101), sack.Confirmed[0].ID)

	assert.Equal(t, services.SackStats{Pieces: 1, Pounds: 10, Kilograms: 4.54}, sack.PendingStats)
	assert.Equal(t, services.SackStats{Pieces: 1, Pounds: 5, Kilograms: 2.27}, sack.ConfirmedStats)
}
