package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/app/repositories/repotest"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
)

type apiResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

type testAPI struct {
	engine *gin.Engine
	store  *repositories.Store
	svc    *services.Services
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, _ := repotest.NewStore(t)

	mock := clock.NewMock()
	mock.Set(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	svc := services.New(store, services.Options{Clock: mock})

	r := gin.New()
	RegisterAPIRoutes(r, svc)
	return &testAPI{engine: r, store: store, svc: svc}
}

// do 发起请求，openid 非空时模拟网关注入的小程序身份
func (a *testAPI) do(t *testing.T, method, path, openid string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
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
	if openid != "" {
		req.Header.Set(services.HeaderOpenID, openid)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func (a *testAPI) createEvent(t *testing.T, e event.Event) *event.Event {
	t.Helper()
	if e.Divisions == nil {
		e.Divisions = models.StringList{}
	}
	require.NoError(t, a.store.Events.Create(context.Background(), &e))
	return &e
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w, resp := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "werox-bff", resp.Data["service"])
	assert.Contains(t, resp.Data, "has_api_key")
}

func TestEventsRoutes(t *testing.T) {
	api := newTestAPI(t)
	e := api.createEvent(t, event.Event{Title: "城市挑战赛", EventDate: "2026-06-01", DivisionTemplate: "hyrox_official"})

	t.Run("list", func(t *testing.T) {
		w, resp := api.do(t, http.MethodGet, "/v1/events?limit=5", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := resp.Data["events"].([]interface{})
		require.Len(t, list, 1)
		item := list[0].(map[string]interface{})
		assert.Equal(t, "城市挑战赛", item["title"])
		assert.Equal(t, []interface{}{"Open男", "Open女", "Doubles混双"}, item["divisions"])
		assert.Equal(t, "upcoming", item["status_info"].(map[string]interface{})["status"])
	})

	t.Run("detail", func(t *testing.T) {
		w, resp := api.do(t, http.MethodGet, "/v1/events/"+itoa(e.ID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "城市挑战赛", resp.Data["event"].(map[string]interface{})["title"])
	})

	t.Run("invalid id", func(t *testing.T) {
		w, resp := api.do(t, http.MethodGet, "/v1/events/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_EVENT_ID", resp.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w, resp := api.do(t, http.MethodGet, "/v1/events/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "EVENT_NOT_FOUND", resp.Code)
	})

	t.Run("create requires organizer", func(t *testing.T) {
		w, resp := api.do(t, http.MethodPost, "/v1/events", "o-runner", map[string]interface{}{"title": "新赛事"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", resp.Code)
	})
}

func TestRegistrationRoutes(t *testing.T) {
	api := newTestAPI(t)
	e := api.createEvent(t, event.Event{Title: "报名赛", EventDate: "2026-06-01"})
	path := "/v1/events/" + itoa(e.ID)

	t.Run("requires identity", func(t *testing.T) {
		w, resp := api.do(t, http.MethodPost, path+"/registrations", "", map[string]interface{}{"division": "个人体验组"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", resp.Code)
		assert.False(t, resp.Success)
	})

	t.Run("division required", func(t *testing.T) {
		w, resp := api.do(t, http.MethodPost, path+"/registrations", "o-1", map[string]interface{}{"division": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "DIVISION_REQUIRED", resp.Code)
	})

	t.Run("register once", func(t *testing.T) {
		w, resp := api.do(t, http.MethodPost, path+"/registrations", "o-1", map[string]interface{}{"division": "个人体验组"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "个人体验组", resp.Data["registration"].(map[string]interface{})["division"])

		w, resp = api.do(t, http.MethodPost, path+"/registrations", "o-1", map[string]interface{}{"division": "个人体验组"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ALREADY_SIGNED", resp.Code)

		w, resp = api.do(t, http.MethodGet, path+"/registration/me", "o-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, resp.Data["is_signed"])
	})
}

func TestMeRoutes(t *testing.T) {
	api := newTestAPI(t)

	w, resp := api.do(t, http.MethodGet, "/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Code)

	w, resp = api.do(t, http.MethodGet, "/v1/me/role", "o-me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "runner", resp.Data["role"])

	w, resp = api.do(t, http.MethodPatch, "/v1/me/profile", "o-me", map[string]interface{}{"nickname": "阿杰", "tags": []string{"力量"}})
	require.Equal(t, http.StatusOK, w.Code)
	profile := resp.Data["profile"].(map[string]interface{})
	assert.Equal(t, "阿杰", profile["nickname"])
	assert.Equal(t, []interface{}{"力量"}, profile["tags"])
}

func TestUsersRoutesRequireAdmin(t *testing.T) {
	api := newTestAPI(t)

	w, resp := api.do(t, http.MethodGet, "/v1/users", "o-runner", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Code)

	w, resp = api.do(t, http.MethodPatch, "/v1/users/1/role", "o-runner", map[string]interface{}{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Code)
}

func TestRouteRateLimit(t *testing.T) {
	config.Set("limit.profile_update", "2-M")
	t.Cleanup(func() { config.Set("limit.profile_update", "") })
	api := newTestAPI(t)

	for i := 0; i < 2; i++ {
		w, _ := api.do(t, http.MethodPatch, "/v1/me/profile", "o-limited", map[string]interface{}{"bio": "hi"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, resp := api.do(t, http.MethodPatch, "/v1/me/profile", "o-limited", map[string]interface{}{"bio": "hi"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMIT", resp.Code)
	assert.Equal(t, "更新过于频繁，请稍后再试", resp.Message)

	// 其他用户不受影响
	w, _ = api.do(t, http.MethodPatch, "/v1/me/profile", "o-other", map[string]interface{}{"bio": "hi"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
