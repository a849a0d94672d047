package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidhub/internal/handlers"
	"vidhub/internal/httpx"
	middlewareauth "vidhub/internal/middleware/auth"
	"vidhub/internal/models"
	"vidhub/internal/repo"
	"vidhub/internal/service"
	httpserver "vidhub/internal/transport/http"
)

type fakeStore struct {
	fail bool
}

func (f *fakeStore) Upload(_ context.Context, folder, filename, _ string, _ io.Reader) (string, error) {
	if f.fail {
		return "", errors.New("storage unavailable")
	}
	return fmt.Sprintf("https://cdn.example.com/%s/%s", folder, filename), nil
}

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Store *fakeStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Video{},
		&models.WatchEvent{},
	))

	store := &fakeStore{}
	repository := repo.New(db)
	authService := &service.AuthService{
		Repo:          repository,
		Media:         store,
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	userService := &service.UserService{Repo: repository, Media: store}

	e := echo.New()
	e.HTTPErrorHandler = httpx.ErrorHandler

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{Auth: authService},
		UserHandler: &handlers.UserHandler{Users: userService},
		AuthGate:    &middlewareauth.Middleware{Repo: repository, AccessSecret: []byte("access-secret")},
	}
	httpserver.Register(e, &deps)

	return &testEnv{T: t, E: e, DB: db, Store: store}
}

func (env *testEnv) doJSON(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSONWithHeader(method, path string, body interface{}, authorization string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, authorization)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doMultipart(path string, fields map[string]string, files map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(env.T, w.WriteField(name, value))
	}
	for field, filename := range files {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(env.T, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) register(username string) {
	rec := env.doMultipart("/api/v1/register",
		map[string]string{
			"fullName": "User " + username,
			"username": username,
			"email":    username + "@x.com",
			"password": "p1",
		},
		map[string]string{"avatar": username + ".png"},
	)
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
}

func (env *testEnv) login(username string) (string, string) {
	rec := env.doJSON(http.MethodPost, "/api/v1/login", map[string]string{
		"username": username,
		"password": "p1",
	})
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.Data.AccessToken)
	require.NotEmpty(env.T, resp.Data.RefreshToken)
	return resp.Data.AccessToken, resp.Data.RefreshToken
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
