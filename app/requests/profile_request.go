package requests

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/services"

	"github.com/gin-gonic/gin"
)

// ValidateProfilePatch 解析资料局部更新
func ValidateProfilePatch(c *gin.Context) (services.ProfilePatch, error) {
	var body map[string]interface{}
	if err := BindJSON(c, &body); err != nil {
		return services.ProfilePatch{}, err
	}
	return services.NewProfilePatch(body), nil
}
