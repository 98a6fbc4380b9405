package models_test

import (
	"testing"

	"encomiendas-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"sudo", "admin", "customer"} {
		role, err := models.ParseRole(s)
		require.NoError(t, err)
		assert.True(t, role.Valid())
	}

	for _, s := range []string{"", "root", "ADMIN", "Admin"} {
		_, err := models.ParseRole(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestParseServiceType(t *testing.T) {
	for _, s := range []string{"CARGA", "PAQUETE", "PERFUMERIA", "SOBRE"} {
		st, err := models.ParseServiceType(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(st))
	}

	for _, s := range []string{"", "carga", "DOCUMENTO"} {
		_, err := models.ParseServiceType(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestUserPassword(t *testing.T) {
	var u models.User
	u.SetPassword("s3cret-pass")
	assert.NoError(t, u.ComparePassword("s3cret-pass"))
	assert.Error(t, u.ComparePassword("wrong"))
}
