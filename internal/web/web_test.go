package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authservice "github.com/PeterRema/calendario-project/auth/service"
	authstorage "github.com/PeterRema/calendario-project/auth/storage"
	"github.com/PeterRema/calendario-project/auth/users"
	"github.com/PeterRema/calendario-project/internal/config"
	"github.com/PeterRema/calendario-project/internal/domain"
	"github.com/PeterRema/calendario-project/internal/logger"
	"github.com/PeterRema/calendario-project/internal/service"
	"github.com/PeterRema/calendario-project/internal/storage"
	"github.com/PeterRema/calendario-project/internal/web/webpath"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAuthStorage struct {
	users   map[uuid.UUID]users.User
	secrets map[uuid.UUID]users.Secret
	audit   []users.AuditLogEntry
}

func newMemAuthStorage() *memAuthStorage {
	return &memAuthStorage{
		users:   make(map[uuid.UUID]users.User),
		secrets: make(map[uuid.UUID]users.Secret),
	}
}

func (m *memAuthStorage) CreateUser(_ context.Context, user users.User, secret users.Secret) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return authstorage.ErrEmailTaken
		}
	}
	m.users[user.ID] = user
	m.secrets[user.ID] = secret
	return nil
}

func (m *memAuthStorage) GetUser(_ context.Context, id uuid.UUID) (users.User, error) {
	u, ok := m.users[id]
	if !ok {
		return users.User{}, authstorage.ErrNotFound
	}
	return u, nil
}

func (m *memAuthStorage) GetUserByEmail(_ context.Context, email string) (users.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, authstorage.ErrNotFound
}

func (m *memAuthStorage) GetUserSecret(_ context.Context, id uuid.UUID) (users.Secret, error) {
	s, ok := m.secrets[id]
	if !ok {
		return users.Secret{}, authstorage.ErrNotFound
	}
	return s, nil
}

func (m *memAuthStorage) UpdatePassword(_ context.Context, id uuid.UUID, secret users.Secret, mustChange bool) error {
	u, ok := m.users[id]
	if !ok {
		return authstorage.ErrNotFound
	}
	u.MustChangePassword = mustChange
	m.users[id] = u
	m.secrets[id] = secret
	return nil
}

func (m *memAuthStorage) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	u, ok := m.users[id]
	if !ok {
		return authstorage.ErrNotFound
	}
	u.Name = name
	m.users[id] = u
	return nil
}

func (m *memAuthStorage) ListUsers(_ context.Context) ([]users.User, error) {
	var list []users.User
	for _, u := range m.users {
		list = append(list, u)
	}
	return list, nil
}

func (m *memAuthStorage) DeleteUser(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return authstorage.ErrNotFound
	}
	delete(m.users, id)
	delete(m.secrets, id)
	return nil
}

func (m *memAuthStorage) AppendAuditLog(_ context.Context, entry users.AuditLogEntry) error {
	m.audit = append(m.audit, entry)
	return nil
}

func (m *memAuthStorage) ListAuditLog(_ context.Context, actorID uuid.UUID) ([]users.AuditLogEntry, error) {
	var list []users.AuditLogEntry
	for _, e := range m.audit {
		if e.ActorID == actorID {
			list = append(list, e)
		}
	}
	return list, nil
}

type memActivityStorage struct {
	activities map[uuid.UUID]domain.Activity
}

func (m *memActivityStorage) Create(_ context.Context, a domain.Activity) error {
	m.activities[a.ID] = a
	return nil
}

func (m *memActivityStorage) Get(_ context.Context, id uuid.UUID) (domain.Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return domain.Activity{}, storage.ErrNotFound
	}
	return a, nil
}

func (m *memActivityStorage) Update(_ context.Context, a domain.Activity) error {
	m.activities[a.ID] = a
	return nil
}

func (m *memActivityStorage) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.activities, id)
	return nil
}

func (m *memActivityStorage) List(_ context.Context, _ storage.Filter) ([]domain.Activity, error) {
	var list []domain.Activity
	for _, a := range m.activities {
		list = append(list, a)
	}
	return list, nil
}

type fixture struct {
	server *Server
	auth   *authservice.Service
	admin  users.User
	user   users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemAuthStorage()
	auth, err := authservice.New(context.Background(), authservice.Config{
		Token:      "test-secret",
		Expiration: "1h",
		AdminName:  "Admin",
		AdminEmail: "admin@example.com",
	}, store, logger.New(false))
	require.NoError(t, err)

	admin, err := store.GetUserByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.NoError(t, auth.ChangePassword(context.Background(), admin.ID, authservice.DefaultTempPassword, "admin-password"))
	admin, err = auth.GetUser(context.Background(), admin.ID)
	require.NoError(t, err)

	user, temp, err := auth.CreateUser(context.Background(), "Anna", "anna@example.com", "USER", "")
	require.NoError(t, err)
	require.NoError(t, auth.ChangePassword(context.Background(), user.ID, temp, "anna-password"))
	user, err = auth.GetUser(context.Background(), user.ID)
	require.NoError(t, err)

	activities := service.New(&memActivityStorage{activities: make(map[uuid.UUID]domain.Activity)}, auth)
	server, err := New(config.Server{Host: "localhost", Port: 3000}, auth, activities, logger.New(false))
	require.NoError(t, err)
	return &fixture{server: server, auth: auth, admin: admin, user: user}
}

func (f *fixture) request(t *testing.T, method, target string, body any, as *users.User) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		cookie, err := f.auth.GenerateJWTCookie(*as, "localhost")
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	resp, err := f.server.app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestGuardRedirects(t *testing.T) {
	f := newFixture(t)
	mustChange := f.user
	mustChange.MustChangePassword = true

	tests := []struct {
		name         string
		path         string
		as           *users.User
		wantStatus   int
		wantLocation string
	}{
		{name: "home is public", path: webpath.Home, wantStatus: http.StatusOK},
		{name: "login page is reachable without session", path: webpath.Login, wantStatus: http.StatusOK},
		{name: "dashboard without session", path: webpath.Dashboard, wantStatus: http.StatusFound, wantLocation: webpath.Login},
		{name: "admin without session", path: webpath.Admin, wantStatus: http.StatusFound, wantLocation: webpath.Login},
		{name: "profile without session", path: webpath.AccountProfile, wantStatus: http.StatusFound, wantLocation: webpath.Login},
		{name: "dashboard with session", path: webpath.Dashboard, as: &f.user, wantStatus: http.StatusOK},
		{name: "admin area for plain user", path: webpath.Admin, as: &f.user, wantStatus: http.StatusFound, wantLocation: webpath.Dashboard},
		{name: "admin area for admin", path: webpath.Admin, as: &f.admin, wantStatus: http.StatusOK},
		{name: "login page with user session", path: webpath.Login, as: &f.user, wantStatus: http.StatusFound, wantLocation: webpath.Dashboard},
		{name: "login page with admin session", path: webpath.Login, as: &f.admin, wantStatus: http.StatusFound, wantLocation: webpath.Admin},
		{name: "forced change blocks dashboard", path: webpath.Dashboard, as: &mustChange, wantStatus: http.StatusFound, wantLocation: webpath.AccountChangePassword},
		{name: "forced change blocks profile", path: webpath.AccountProfile, as: &mustChange, wantStatus: http.StatusFound, wantLocation: webpath.AccountChangePassword},
		{name: "forced change allows its own page", path: webpath.AccountChangePassword, as: &mustChange, wantStatus: http.StatusOK},
		{name: "forced change allows logout", path: webpath.Logout, as: &mustChange, wantStatus: http.StatusFound, wantLocation: webpath.Home},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.request(t, http.MethodGet, tt.path, nil, tt.as)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, resp.Header.Get("Location"))
			}
		})
	}
}

func TestGuardForcedChangeDominatesAdmin(t *testing.T) {
	f := newFixture(t)
	adminMustChange := f.admin
	adminMustChange.MustChangePassword = true

	resp := f.request(t, http.MethodGet, webpath.Admin, nil, &adminMustChange)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, webpath.AccountChangePassword, resp.Header.Get("Location"))
}

func TestLoginFlow(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"email": {"anna@example.com"}, "password": {"anna-password"}}
	req := httptest.NewRequest(http.MethodPost, webpath.Login, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := f.server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, webpath.Dashboard, resp.Header.Get("Location"))

	var token string
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			token = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, token)
	claims, ok := f.auth.UserFromToken(token)
	require.True(t, ok)
	assert.Equal(t, f.user.ID, claims.UserID)
}

func TestLoginRejectedStaysOnPage(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"email": {"anna@example.com"}, "password": {"wrong-password"}}
	req := httptest.NewRequest(http.MethodPost, webpath.Login, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := f.server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		assert.NotEqual(t, "token", c.Name)
	}
}

func TestProfileAPI(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, webpath.ApiAccountProfile, nil, &f.user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile map[string]any
	decodeBody(t, resp, &profile)
	assert.Equal(t, "anna@example.com", profile["email"])

	resp = f.request(t, http.MethodPut, webpath.ApiAccountProfile, map[string]string{"name": "Anna Bianchi"}, &f.user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &profile)
	assert.Equal(t, "Anna Bianchi", profile["name"])

	resp = f.request(t, http.MethodGet, webpath.ApiAccountProfile, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfilePageShowsAuditTrail(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, webpath.AccountProfile, nil, &f.user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	// the fixture user completed one forced password change
	assert.Contains(t, string(body), "audit-trail")
	assert.Contains(t, string(body), "Password cambiata il")
}

func TestChangePasswordAPI(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, webpath.ApiAccountChangePassword, map[string]string{
		"currentPassword": "wrong-password",
		"newPassword":     "next-password",
	}, &f.user)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.request(t, http.MethodPost, webpath.ApiAccountChangePassword, map[string]string{
		"currentPassword": "anna-password",
		"newPassword":     "abc",
	}, &f.user)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.request(t, http.MethodPost, webpath.ApiAccountChangePassword, map[string]string{
		"currentPassword": "anna-password",
		"newPassword":     "next-password",
	}, &f.user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err := f.auth.Login(context.Background(), "anna@example.com", "next-password")
	assert.NoError(t, err)
}

func TestAdminUsersAPI(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, webpath.ApiAdminUsers, nil, &f.user)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodGet, webpath.ApiAdminUsers, nil, &f.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	decodeBody(t, resp, &list)
	assert.Len(t, list, 2)

	resp = f.request(t, http.MethodPost, webpath.ApiAdminUsers, map[string]string{
		"name":  "Mario Rossi",
		"email": "mario@example.com",
		"role":  "USER",
	}, &f.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	decodeBody(t, resp, &created)
	assert.Equal(t, authservice.DefaultTempPassword, created["tempPassword"])

	resp = f.request(t, http.MethodPost, webpath.ApiAdminUsers, map[string]string{
		"name":  "Mario Clone",
		"email": "mario@example.com",
		"role":  "USER",
	}, &f.admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = f.request(t, http.MethodPost, webpath.ApiAdminUsers, map[string]string{
		"name":  "",
		"email": "not-an-email",
	}, &f.admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminDeleteAndReset(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodDelete, webpath.ApiAdminUsers+"/"+f.admin.ID.String(), nil, &f.admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.request(t, http.MethodDelete, webpath.ApiAdminUsers+"/not-a-uuid", nil, &f.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.request(t, http.MethodPost, webpath.ApiAdminUsers+"/"+f.user.ID.String()+"/reset-password", nil, &f.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reset map[string]any
	decodeBody(t, resp, &reset)
	assert.Equal(t, authservice.DefaultTempPassword, reset["tempPassword"])

	got, err := f.auth.GetUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.True(t, got.MustChangePassword)

	resp = f.request(t, http.MethodDelete, webpath.ApiAdminUsers+"/"+f.user.ID.String(), nil, &f.admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.request(t, http.MethodDelete, webpath.ApiAdminUsers+"/"+f.user.ID.String(), nil, &f.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestActivitiesAPI(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, webpath.ApiActivities, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.request(t, http.MethodPost, webpath.ApiActivities, map[string]any{
		"type":      "FERIE",
		"startDate": "2024-03-01",
		"endDate":   "2024-03-05",
		"note":      "settimana bianca",
	}, &f.user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	decodeBody(t, resp, &created)
	id := created["id"].(string)

	resp = f.request(t, http.MethodPost, webpath.ApiActivities, map[string]any{
		"type": "FERIE",
	}, &f.user)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.request(t, http.MethodPost, webpath.ApiActivities, map[string]any{
		"type":      "VACANZA",
		"startDate": "2024-03-01",
		"endDate":   "2024-03-05",
	}, &f.user)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.request(t, http.MethodGet, webpath.ApiActivities, nil, &f.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	owner := list[0]["user"].(map[string]any)
	assert.Equal(t, "Anna", owner["name"])

	resp = f.request(t, http.MethodGet, webpath.ApiActivities+"/"+id, nil, &f.user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// someone else's activity reads as missing
	resp = f.request(t, http.MethodGet, webpath.ApiActivities+"/"+id, nil, &f.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = f.request(t, http.MethodDelete, webpath.ApiActivities+"/"+id, nil, &f.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.request(t, http.MethodPut, webpath.ApiActivities+"/"+id, map[string]any{
		"type": "PERMESSO",
		"note": "",
	}, &f.user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	decodeBody(t, resp, &updated)
	assert.Equal(t, "PERMESSO", updated["type"])
	assert.Nil(t, updated["note"])

	resp = f.request(t, http.MethodDelete, webpath.ApiActivities+"/"+id, nil, &f.user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = f.request(t, http.MethodGet, webpath.ApiActivities+"/"+id, nil, &f.user)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
