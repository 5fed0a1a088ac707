package logging

import (
	"net/http/httptest"
	"testing"

	"pastoral-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("production", "loud")
	assert.Error(t, err)

	log, err := New("development", "debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestRequestLoggerRecordsStatusAndUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.Status(apperr.KindOf(err))).SendString(err.Error())
		},
	})
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error {
		c.Locals(LocalsUserID, uint(7))
		return c.SendString("ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperr.NotFound("Member not found")
	})

	_, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)

	ok := entries[0].ContextMap()
	assert.Equal(t, int64(200), ok["status"])
	assert.Equal(t, uint64(7), ok["user_id"])
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	missing := entries[1].ContextMap()
	assert.Equal(t, int64(404), missing["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
