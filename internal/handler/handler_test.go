package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"marketplace-api/internal/model"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/testutil"
	"marketplace-api/pkg/config"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupHandlerTest swaps the global database for an in-memory one and wires
// the handler package against a throwaway storage directory.
func setupHandlerTest(t *testing.T) *gorm.DB {
	t.Helper()

	db := testutil.NewDB(t)
	database.DB = db
	t.Cleanup(func() { database.DB = nil })

	dir := t.TempDir()
	store, err := storage.NewDiskStorage(dir, "/storage/images")
	require.NoError(t, err)

	cfg := &config.Config{
		ServiceName: "marketplace-api",
		JWT:         config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1},
		Storage: config.StorageConfig{
			BasePath:     dir,
			PublicURL:    "/storage/images",
			MaxUploadMB:  5,
			AllowedMIMEs: []string{"image/jpeg", "image/png", "image/webp"},
		},
		Policy: config.PolicyConfig{OpenSpaceCreation: true},
	}
	jwtutil.Initialize(&cfg.JWT)
	Init(cfg, store)

	return db
}

// newRequest builds an echo context carrying an optional JSON body and an
// optional pre-authenticated actor.
func newRequest(t *testing.T, method, target string, body interface{}, actor *model.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	reader := bytes.NewReader(nil)
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if actor != nil {
		c.Set("actor", actor)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
