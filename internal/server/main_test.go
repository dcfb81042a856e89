package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	service.PasswordCost = bcrypt.MinCost
}

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	redis  *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      "test-secret-that-is-long-enough-for-hs256",
		JWTTTLHours:    1,
		AllowedOrigins: "http://localhost:5173",
	}
}

// newTestEnv wires a server against in-memory sqlite and miniredis. The cache
// client is package-global, so tests using it must not run in parallel.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	s := NewServer(testConfig(), db, rdb)
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return &testEnv{server: s, app: s.App(), db: db, redis: mr}
}

// do sends a request and decodes nothing; callers pick the body apart.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

// register creates an account through the API and returns its token and id.
func (e *testEnv) register(t *testing.T, username string) (string, uint) {
	t.Helper()
	resp, data := e.do(t, http.MethodPost, "/api/auth/register", service.RegisterInput{
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		Password: "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	out := decode[authResponse](t, data)
	return out.Token, out.User.ID
}

// registerAdmin registers and promotes. The token stays valid since roles are
// read from the user record on every request.
func (e *testEnv) registerAdmin(t *testing.T, username string) (string, uint) {
	t.Helper()
	token, id := e.register(t, username)
	_, err := e.server.userService.SetRole(context.Background(), id, models.RoleAdmin)
	require.NoError(t, err)
	return token, id
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
