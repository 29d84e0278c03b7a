package integration

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"member-access-be/internal/bootstrap"
	"member-access-be/internal/config"
	"member-access-be/internal/model"
	"member-access-be/internal/server"
	"member-access-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupApp boots the full container against the real database from .env.
// Skipped when no DSN is configured, so the unit suite stays self-contained.
func setupApp(t *testing.T) (*server.Server, *gorm.DB) {
	t.Helper()

	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()
	if cfg.Database.Connection == "" || os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("set DB_CONNECTION_STRING and RUN_INTEGRATION_TESTS to run integration tests")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	require.NoError(t, err)

	container := bootstrap.NewContainer(db, cfg)
	return server.New(cfg, container), db
}

func seedTestAdmin(t *testing.T, db *gorm.DB, email, password string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	db.Where("email = ?", email).Delete(&model.AdminUser{})
	require.NoError(t, db.Create(&model.AdminUser{
		Email:        email,
		FullName:     "Integration Admin",
		PasswordHash: string(hash),
		IsActive:     true,
	}).Error)

	t.Cleanup(func() {
		db.Where("email = ?", email).Delete(&model.AdminUser{})
	})
}

func TestAdminLogin(t *testing.T) {
	srv, db := setupApp(t)
	app := srv.GetApp()

	email := "integration-admin@example.com"
	seedTestAdmin(t, db, email, "admin123")

	t.Run("valid credentials return a token", func(t *testing.T) {
		body := `{"email":"` + email + `","password":"admin123"}`
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var parsed struct {
			Success bool `json:"success"`
			Data    struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		assert.True(t, parsed.Success)
		assert.NotEmpty(t, parsed.Data.Token)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		body := `{"email":"` + email + `","password":"nope"}`
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("admin routes require a token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/subscriptions", nil)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})
}
