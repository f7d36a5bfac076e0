package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"chat-service/internal/auth/credentials"
	"chat-service/internal/auth/provider"
	"chat-service/internal/session"
	"chat-service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	sessions map[string]*session.Session
}

func (f *fakeStore) Create(_ context.Context, s session.Session) error {
	f.sessions[s.SessionID] = &s
	return nil
}

func (f *fakeStore) Get(_ context.Context, sessionID string) (*session.Session, error) {
	return f.sessions[sessionID], nil
}

func (f *fakeStore) Update(_ context.Context, s session.Session) error {
	f.sessions[s.SessionID] = &s
	return nil
}

func (f *fakeStore) Delete(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

type fakeDirectory struct {
	user.Directory

	byUsername map[string]*user.User
}

func (f *fakeDirectory) FindByUsername(_ context.Context, username string) (*user.User, error) {
	return f.byUsername[strings.ToLower(username)], nil
}

func (f *fakeDirectory) InsertLocal(_ context.Context, username, passwordHash string) (*user.User, error) {
	key := strings.ToLower(username)
	if _, exists := f.byUsername[key]; exists {
		return nil, user.ErrDuplicateUsername
	}
	u := &user.User{
		ID:           "u-" + key,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		LastLoginAt:  time.Now(),
		LoginCount:   1,
	}
	f.byUsername[key] = u
	return u, nil
}

func (f *fakeDirectory) RecordLogin(_ context.Context, _ string) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeStore, *fakeDirectory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &fakeStore{sessions: make(map[string]*session.Session)}
	dir := &fakeDirectory{byUsername: make(map[string]*user.User)}

	h := NewHandler(
		provider.NewRegistry(),
		store,
		dir,
		credentials.NewService(dir),
	)

	router := gin.New()
	h.RegisterRoutes(router)

	return router, store, dir
}

func addUser(t *testing.T, dir *fakeDirectory, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	dir.byUsername[strings.ToLower(username)] = &user.User{
		ID:           "u-" + strings.ToLower(username),
		Username:     username,
		PasswordHash: string(hash),
	}
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLoginSuccessIssuesSession(t *testing.T) {
	router, store, dir := newTestRouter(t)
	addUser(t, dir, "alice", "secret1")

	rec := postForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "login must deliver the session cookie")

	sess := store.sessions[cookie.Value]
	require.NotNil(t, sess, "cookie token must resolve in the shared store")
	assert.Equal(t, "u-alice", sess.UserID)
}

func TestLoginWrongPasswordRedirectsHome(t *testing.T) {
	router, store, dir := newTestRouter(t)
	addUser(t, dir, "alice", "secret1")

	rec := postForm(router, "/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Nil(t, sessionCookie(rec))
	assert.Empty(t, store.sessions)
}

func TestLoginUnknownUserRedirectsHome(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := postForm(router, "/login", url.Values{
		"username": {"nobody"},
		"password": {"secret1"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	router, store, dir := newTestRouter(t)

	rec := postForm(router, "/register", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))

	created := dir.byUsername["alice"]
	require.NotNil(t, created)
	assert.NotEqual(t, "secret1", created.PasswordHash)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	require.NotNil(t, store.sessions[cookie.Value])
}

func TestRegisterDuplicateUsernameRedirectsHome(t *testing.T) {
	router, store, dir := newTestRouter(t)
	addUser(t, dir, "alice", "secret1")

	rec := postForm(router, "/register", url.Values{
		"username": {"alice"},
		"password": {"another1"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, store.sessions)
}

func TestLogoutDestroysSessionAndClearsCookie(t *testing.T) {
	router, store, _ := newTestRouter(t)

	require.NoError(t, store.Create(context.Background(), session.Session{
		SessionID: "tok",
		UserID:    "u-alice",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, store.sessions, "logout must destroy the server-side session")

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestOAuthLoginUnknownProvider(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/oauth/login/myspace", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
