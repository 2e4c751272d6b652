package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/repositories/repotest"
	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/limiter"
)

// authFunc 以函数实现认证服务
type authFunc func(ctx context.Context, token string) (cloudbase.AuthProfile, error)

func (f authFunc) UserMe(ctx context.Context, token string) (cloudbase.AuthProfile, error) {
	return f(ctx, token)
}

func newIdentityRouter(t *testing.T, auth services.AuthProvider, requireMini bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, _ := repotest.NewStore(t)
	svc := services.New(store, services.Options{})
	resolver := services.NewIdentityResolver(svc.Identity, auth, 0, 0)

	r := gin.New()
	r.GET("/whoami", AttachIdentity(resolver, requireMini), func(c *gin.Context) {
		identity := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{
			"openid":  identity.OpenID,
			"subject": c.GetString(limiter.SubjectContextKey),
		})
	})
	return r
}

func call(r *gin.Engine, header map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAttachIdentity(t *testing.T) {
	failing := func(err error) services.AuthProvider {
		return authFunc(func(context.Context, string) (cloudbase.AuthProfile, error) {
			return nil, err
		})
	}

	t.Run("mini identity", func(t *testing.T) {
		r := newIdentityRouter(t, failing(errors.New("unused")), false)
		w, body := call(r, map[string]string{"X-WX-OPENID": "o-abc"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "o-abc", body["openid"])
		assert.Equal(t, "o-abc", body["subject"])
	})

	t.Run("missing identity", func(t *testing.T) {
		r := newIdentityRouter(t, failing(errors.New("unused")), false)
		w, body := call(r, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	})

	t.Run("mini required", func(t *testing.T) {
		r := newIdentityRouter(t, failing(errors.New("unused")), true)
		w, body := call(r, map[string]string{"Authorization": "Bearer token"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	})

	t.Run("missing api key", func(t *testing.T) {
		r := newIdentityRouter(t, failing(cloudbase.ErrMissingAPIKey), false)
		w, body := call(r, map[string]string{"Authorization": "Bearer token"})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "MISSING_TCB_API_KEY", body["code"])
	})

	t.Run("resolve failure", func(t *testing.T) {
		r := newIdentityRouter(t, failing(errors.New("auth service timeout")), false)
		w, body := call(r, map[string]string{"Authorization": "Bearer token"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "IDENTITY_RESOLVE_FAILED", body["code"])
	})
}
