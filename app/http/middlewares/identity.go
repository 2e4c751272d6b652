package middlewares

import (
	"errors"
	"net/http"

	"github.com/boshenzh/werox-wechat-mini-program/app/services"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/limiter"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	identityKey       = "identity"
	identityOpenIDKey = "identity_openid"
)

// AttachIdentity 解析调用方身份并写入上下文
//
// requireMini 为 true 时只接受网关注入的小程序身份
func AttachIdentity(resolver *services.IdentityResolver, requireMini bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Resolve(c.Request.Context(), c.Request.Header, requireMini)
		if err != nil {
			abortIdentity(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Set(identityOpenIDKey, identity.OpenID)
		c.Set(limiter.SubjectContextKey, identity.OpenID)
		c.Next()
	}
}

// CurrentIdentity 取出 AttachIdentity 写入的身份
func CurrentIdentity(c *gin.Context) *services.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(*services.Identity); ok {
			return identity
		}
	}
	return nil
}

func abortIdentity(c *gin.Context, err error) {
	if errors.Is(err, services.ErrMissingIdentity) || errors.Is(err, services.ErrMiniIdentityRequired) {
		response.Fail(c, services.ErrUnauthorized.WithDetail(err.Error()))
		return
	}

	e := services.Classify(err, services.ErrIdentityResolveFailed)
	if e.Status != http.StatusServiceUnavailable {
		e = services.ErrIdentityResolveFailed.WithDetail(err.Error())
	}
	logger.Warn("身份解析失败", zap.String("path", c.Request.URL.Path), zap.Error(err))
	response.Fail(c, e)
}
