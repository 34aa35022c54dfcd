package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"study-tracker/internal/repository"
	"study-tracker/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	weeklyRepo := repository.NewWeeklyPlanRepository(db)
	logRepo := repository.NewLogRepository(db)
	planRepo := repository.NewPlanRepository(db)

	loc := time.UTC
	svc := Services{
		Auth:       service.NewAuthService(db, users, categories, service.NewTokenIssuer("test-secret", time.Hour)),
		Categories: service.NewCategoryService(categories),
		Weekly:     service.NewWeeklyPlanService(db, weeklyRepo, logRepo, categories, loc),
		Logs:       service.NewLogService(db, logRepo, planRepo, categories, loc),
		Plans:      service.NewPlanService(db, planRepo, logRepo, categories, loc),
		Presets:    service.NewPresetService(repository.NewPresetRepository(db)),
		Analytics:  service.NewAnalyticsService(repository.NewAnalyticsRepository(db), logRepo, planRepo, loc),
	}
	return NewRouter(svc, loc, zap.NewNop())
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func registerUser(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ana", "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token, ok := decode(t, rec)["token"].(string)
	require.True(t, ok)
	return token
}

func firstCategoryID(t *testing.T, router http.Handler, token, area string) float64 {
	t.Helper()
	rec := doJSON(t, router, http.MethodGet, "/api/categories/"+area, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["categories"].([]interface{})
	require.NotEmpty(t, list)
	return list[0].(map[string]interface{})["id"].(float64)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRegisterLoginAndMe(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")

	dup := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ana", "email": "ANA@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, dup.Code)

	bad := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	ok := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, ok.Code)
	assert.NotEmpty(t, decode(t, ok)["token"])

	me := doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	user := decode(t, me)["user"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ana", "email": "not-an-email", "password": "123",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	msg := decode(t, rec)["error"].(string)
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "password must be at least 6")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, router, http.MethodGet, "/api/weekly-plans", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, router, http.MethodGet, "/api/weekly-plans", "garbage", nil).Code)
}

func TestWeeklyPlanCompletionFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")
	categoryID := firstCategoryID(t, router, token, "study")

	created := doJSON(t, router, http.MethodPost, "/api/weekly-plans", token, gin.H{
		"area": "study", "dayOfWeek": 0, "categoryId": categoryID, "title": "Algebra",
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	item := decode(t, created)["item"].(map[string]interface{})
	assert.EqualValues(t, 45, item["durationMinutes"])
	id := int(item["id"].(float64))

	completePath := fmt.Sprintf("/api/weekly-plans/%d/complete", id)
	uncompletePath := fmt.Sprintf("/api/weekly-plans/%d/uncomplete", id)

	first := doJSON(t, router, http.MethodPost, completePath, token, nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	body := decode(t, first)
	assert.Equal(t, "Completed", body["message"])
	assert.NotNil(t, body["logEntry"])

	assert.Equal(t, http.StatusConflict, doJSON(t, router, http.MethodPost, completePath, token, nil).Code)

	weekStart := service.WeekStart(time.Now(), time.UTC).Format("2006-01-02")
	status := doJSON(t, router, http.MethodGet, "/api/weekly-plans/week-status?weekStart="+weekStart, token, nil)
	require.Equal(t, http.StatusOK, status.Code)
	items := decode(t, status)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, true, items[0].(map[string]interface{})["isCompleted"])

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, uncompletePath, token, nil).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, router, http.MethodPost, uncompletePath, token, nil).Code)
}

func TestWeeklyPlanValidation(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")
	categoryID := firstCategoryID(t, router, token, "study")

	cases := map[string]gin.H{
		"missing day":   {"area": "study", "categoryId": categoryID, "title": "x"},
		"day too large": {"area": "study", "dayOfWeek": 7, "categoryId": categoryID, "title": "x"},
		"bad area":      {"area": "chess", "dayOfWeek": 1, "categoryId": categoryID, "title": "x"},
		"bad intensity": {"area": "study", "dayOfWeek": 1, "categoryId": categoryID, "title": "x", "intensity": "extreme"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/weekly-plans", token, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestWeekStatusRequiresMonday(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")

	missing := doJSON(t, router, http.MethodGet, "/api/weekly-plans/week-status", token, nil)
	assert.Equal(t, http.StatusBadRequest, missing.Code)

	tuesday := doJSON(t, router, http.MethodGet, "/api/weekly-plans/week-status?weekStart=2024-03-12", token, nil)
	assert.Equal(t, http.StatusBadRequest, tuesday.Code)
	assert.Contains(t, decode(t, tuesday)["error"], "not a Monday")
}

func TestOtherUsersTemplateIsNotFound(t *testing.T) {
	router := newTestRouter(t)
	owner := registerUser(t, router, "ana@example.com")
	other := registerUser(t, router, "bo@example.com")
	categoryID := firstCategoryID(t, router, owner, "study")

	created := doJSON(t, router, http.MethodPost, "/api/weekly-plans", owner, gin.H{
		"area": "study", "dayOfWeek": 2, "categoryId": categoryID, "title": "Physics",
	})
	require.Equal(t, http.StatusCreated, created.Code)
	id := int(decode(t, created)["item"].(map[string]interface{})["id"].(float64))

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/weekly-plans/%d/complete", id), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")
	categoryID := firstCategoryID(t, router, token, "study")

	created := doJSON(t, router, http.MethodPost, "/api/logs", token, gin.H{
		"area": "study", "dateTime": "2024-03-13T10:00:00Z", "categoryId": categoryID,
		"title": "Revision", "durationMinutes": 30,
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	id := int(decode(t, created)["entry"].(map[string]interface{})["id"].(float64))

	badTime := doJSON(t, router, http.MethodPost, "/api/logs", token, gin.H{
		"area": "study", "dateTime": "yesterday", "categoryId": categoryID, "title": "x",
	})
	assert.Equal(t, http.StatusBadRequest, badTime.Code)

	list := doJSON(t, router, http.MethodGet, "/api/logs?startDate=2024-03-13&endDate=2024-03-13", token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.EqualValues(t, 1, decode(t, list)["total"])

	offsetOnly := doJSON(t, router, http.MethodGet, "/api/logs?offset=5", token, nil)
	assert.Equal(t, http.StatusBadRequest, offsetOnly.Code)

	updated := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/logs/%d", id), token, gin.H{"notes": "chapter 4"})
	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())
	assert.Equal(t, "chapter 4", decode(t, updated)["entry"].(map[string]interface{})["notes"])

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/logs/%d", id), token, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/logs/%d", id), token, nil).Code)
}

func TestPlanCompleteWithoutBody(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")
	categoryID := firstCategoryID(t, router, token, "football")

	created := doJSON(t, router, http.MethodPost, "/api/plans", token, gin.H{
		"date": "2024-03-13", "area": "football", "title": "Sprints", "categoryId": categoryID,
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	id := int(decode(t, created)["item"].(map[string]interface{})["id"].(float64))

	path := fmt.Sprintf("/api/plans/%d/complete", id)
	first := doJSON(t, router, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.NotNil(t, decode(t, first)["logEntry"])

	assert.Equal(t, http.StatusConflict, doJSON(t, router, http.MethodPost, path, token, nil).Code)
}

func TestCategoryRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")

	created := doJSON(t, router, http.MethodPost, "/api/categories/study", token, gin.H{"name": "History", "color": "#aabbcc"})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	dup := doJSON(t, router, http.MethodPost, "/api/categories/study", token, gin.H{"name": "History"})
	assert.Equal(t, http.StatusConflict, dup.Code)

	badArea := doJSON(t, router, http.MethodGet, "/api/categories/chess", token, nil)
	assert.Equal(t, http.StatusBadRequest, badArea.Code)

	badColor := doJSON(t, router, http.MethodPost, "/api/categories/study", token, gin.H{"name": "Art", "color": "red"})
	assert.Equal(t, http.StatusBadRequest, badColor.Code)
}

func TestPresetRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")

	created := doJSON(t, router, http.MethodPost, "/api/presets", token, gin.H{"area": "study", "subject": "Past papers"})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	list := doJSON(t, router, http.MethodGet, "/api/presets?area=study", token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decode(t, list)["presets"], 1)

	del := doJSON(t, router, http.MethodDelete, "/api/presets/by-subject/study/Past%20papers", token, nil)
	assert.Equal(t, http.StatusOK, del.Code, del.Body.String())
}

func TestAnalyticsRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "ana@example.com")

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/api/analytics/weekly", token, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/api/analytics/monthly?year=2024&month=3", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/api/analytics/monthly?year=2024&month=13", token, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/api/analytics/dashboard", token, nil).Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("wrap: %w", service.ErrValidation)))
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(service.ErrConflict))
	assert.Equal(t, http.StatusUnauthorized, statusFor(service.ErrUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("disk full")))
}

func TestInternalErrorsAreMasked(t *testing.T) {
	s := &Server{log: zap.NewNop()}
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) { s.respondError(c, errors.New("sqlite: disk I/O error")) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
