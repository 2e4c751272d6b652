package requests

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"github.com/thedevsaddam/govalidator"
)

// RoleUpdateRequest 修改角色请求
type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// ValidateRoleUpdate 角色统一转为小写后校验
func ValidateRoleUpdate(c *gin.Context) (*RoleUpdateRequest, error) {
	var body map[string]interface{}
	if err := BindJSON(c, &body); err != nil {
		return nil, err
	}
	req := &RoleUpdateRequest{
		Role: strings.ToLower(strings.TrimSpace(cast.ToString(body["role"]))),
	}

	rules := govalidator.MapData{
		"role": []string{"required", "in:runner,coach,organizer,admin"},
	}
	messages := govalidator.MapData{
		"role": []string{
			"required:角色不能为空",
			"in:角色无效，可选值: runner, coach, organizer, admin",
		},
	}
	if err := ValidateStruct(req, rules, messages); err != nil {
		return nil, err
	}
	return req, nil
}
