package controllers_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"encomiendas-backend/controllers"
	"encomiendas-backend/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArticlesEmptyBatch(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Post("/article", controllers.CreateArticles)

	req := httptest.NewRequest(fiber.MethodPost, "/article", strings.NewReader("[]"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
