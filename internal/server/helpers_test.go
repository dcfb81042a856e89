package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"blogId", "blog ID"},
		{"parentCommentId", "parent comment ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, models.CodeValidation, codeForStatus(http.StatusBadRequest))
	assert.Equal(t, models.CodeUnauthorized, codeForStatus(http.StatusUnauthorized))
	assert.Equal(t, models.CodeForbidden, codeForStatus(http.StatusForbidden))
	assert.Equal(t, models.CodeNotFound, codeForStatus(http.StatusNotFound))
	assert.Equal(t, models.CodeConflict, codeForStatus(http.StatusConflict))
	assert.Equal(t, models.CodeInternal, codeForStatus(http.StatusTeapot))
}

func TestQueryPage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(strconv.Itoa(queryPage(c, "pageNumber")))
	})

	tests := map[string]string{
		"/":                "1",
		"/?pageNumber=3":   "3",
		"/?pageNumber=0":   "1",
		"/?pageNumber=-2":  "1",
		"/?pageNumber=abc": "1",
	}
	for url, want := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
		require.NoError(t, err)
		buf := make([]byte, 8)
		n, _ := resp.Body.Read(buf)
		_ = resp.Body.Close()
		assert.Equal(t, want, string(buf[:n]), url)
	}
}

func TestParseID_Invalid(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/blogs/:blogId", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "blogId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for _, raw := range []string{"abc", "0", "-1"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/blogs/"+raw, nil))
		require.NoError(t, err)
		body := decodeBody[models.ErrorResponse](t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid blog ID", body.Error)
		assert.Equal(t, models.CodeValidation, body.Code)
	}
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"not found", models.NewNotFoundError("Blog", 9), http.StatusNotFound, models.CodeNotFound, "Blog with ID 9 not found"},
		{"forbidden", models.NewForbiddenError("nope"), http.StatusForbidden, models.CodeForbidden, "nope"},
		{"conflict", models.NewConflictError("taken"), http.StatusConflict, models.CodeConflict, "taken"},
		{"internal", models.NewInternalError(errors.New("pq: boom")), http.StatusInternalServerError, models.CodeInternal, "Internal server error"},
		{"plain", errors.New("raw driver failure"), http.StatusInternalServerError, models.CodeInternal, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return mapServiceError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			body := decodeBody[models.ErrorResponse](t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.msg, body.Error)
			assert.Empty(t, body.Details)
		})
	}
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
