package database_test

import (
	"testing"

	"encomiendas-backend/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
)

func TestGetTenantDB(t *testing.T) {
	app := fiber.New()

	t.Run("returns the request transaction", func(t *testing.T) {
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)

		tx := &gorm.DB{}
		c.Locals("tx", tx)

		got, err := database.GetTenantDB(c)
		require.NoError(t, err)
		assert.Same(t, tx, got)
	})

	t.Run("schema alone is not enough", func(t *testing.T) {
		// Without a transaction a pooled session cannot guarantee the
		// search_path SET and the later queries share a connection, so the
		// request must fail instead of reading from whatever schema the
		// connection last served.
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)

		c.Locals("schema", "tenant_a")
		_, err := database.GetTenantDB(c)
		assert.Error(t, err)
	})
}
