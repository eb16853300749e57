package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stocktrail/internal/config"
	"stocktrail/internal/dto"
	"stocktrail/internal/handler"
	"stocktrail/internal/model"
	"stocktrail/internal/service"
	"stocktrail/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ── In-memory repository stubs ───────────────────────────────────────────────

type stubUserRepo struct {
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.users[u.Email] = u
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.users[email]
	if !ok || !u.Active {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var users []model.User
	for _, u := range r.users {
		if u.Active {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var users []model.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.Email] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Active = false
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Active = true
			return nil
		}
	}
	return errors.New("not found")
}

type stubActivityRepo2 struct{}

func (stubActivityRepo2) LoadAll(_ context.Context) ([]model.ActivityEntry, error) { return nil, nil }
func (stubActivityRepo2) Append(_ context.Context, _ *model.ActivityEntry) error   { return nil }
func (stubActivityRepo2) DeleteBefore(_ context.Context, _ time.Time) error        { return nil }

// ── Helpers ──────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func newAuthService(repo *stubUserRepo) (service.AuthService, *store.ActivityStore) {
	activity := store.NewActivityStore(stubActivityRepo2{}, nil)
	return service.NewAuthService(repo, activity, newTestCfg()), activity
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	require.NoError(t, err)
	u := &model.User{
		ID: uuid.New(), Name: "Test User", Email: email,
		PasswordHash: string(hash), Role: role, Active: true,
	}
	repo.users[email] = u
	return u
}

func signToken(t *testing.T, userID string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID, "name": "Test User", "email": "t@test.local", "role": "employee",
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func doLoginRequest(t *testing.T, svc service.AuthService, req dto.LoginRequest) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authH := handler.NewAuthHandler(svc)
	r.POST("/login", authH.Login)

	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	return w
}

// ── Tests: Login ─────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@test.local", "password123", model.RoleAdmin)
	svc, _ := newAuthService(repo)

	w := doLoginRequest(t, svc, dto.LoginRequest{Email: "admin@test.local", Password: "password123"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "emp@test.local", "correctpass", model.RoleEmployee)
	svc, _ := newAuthService(repo)

	w := doLoginRequest(t, svc, dto.LoginRequest{Email: "emp@test.local", Password: "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UserNotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	w := doLoginRequest(t, svc, dto.LoginRequest{Email: "ghost@test.local", Password: "anypass123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_RecordsActivity(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "mgr@test.local", "password123", model.RoleManager)
	svc, activity := newAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "mgr@test.local", Password: "password123"})
	require.NoError(t, err)

	entries := activity.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionUserLogin, entries[0].Action)
	assert.Equal(t, u.ID, entries[0].UserID)
}

// ── Tests: Refresh ───────────────────────────────────────────────────────────

func TestRefresh_Success(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "mgr@test.local", "pass1234", model.RoleManager)
	svc, _ := newAuthService(repo)

	loginResp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "mgr@test.local", Password: "pass1234"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), loginResp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, u.Email, resp.User.Email)
}

func TestRefresh_InvalidToken(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	_, err := svc.Refresh(context.Background(), "this.is.garbage")
	assert.Error(t, err)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "emp@test.local", "pass12345", model.RoleEmployee)
	svc, _ := newAuthService(repo)

	expired := signToken(t, u.ID.String(), -time.Second)
	_, err := svc.Refresh(context.Background(), expired)
	assert.Error(t, err)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "emp@test.local", "pass12345", model.RoleEmployee)
	svc, _ := newAuthService(repo)

	tok := signToken(t, u.ID.String(), time.Hour)
	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))

	_, err := svc.Refresh(context.Background(), tok)
	assert.Error(t, err)
}

// ── Tests: User CRUD ─────────────────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "New User", Email: "new@test.local", Password: "securepass", Role: model.RoleEmployee,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployee, resp.Role)
	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.Active)
}

func TestListUsers_ExcludesInactiveByDefault(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "u1@test.local", "pass1234", model.RoleEmployee)
	u2 := seedUser(t, repo, "u2@test.local", "pass1234", model.RoleManager)
	svc, _ := newAuthService(repo)

	require.NoError(t, svc.DeactivateUser(context.Background(), u2.ID))

	active, err := svc.ListUsers(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListUsers(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeactivateUser_BlocksLogin(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "bye@test.local", "pass1234", model.RoleEmployee)
	svc, _ := newAuthService(repo)

	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "bye@test.local", Password: "pass1234"})
	assert.Error(t, err)
}
