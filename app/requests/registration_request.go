package requests

import (
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"github.com/thedevsaddam/govalidator"
)

// RegistrationRequest 报名请求，字段可能以数字等非字符串形式提交
type RegistrationRequest struct {
	Division interface{} `json:"division"`
	TeamName interface{} `json:"team_name"`
	Note     interface{} `json:"note"`
}

type registrationFields struct {
	Division string `json:"division"`
	TeamName string `json:"team_name"`
	Note     string `json:"note"`
}

var (
	registrationRules = govalidator.MapData{
		"division": []string{"required"},
	}
	registrationMessages = govalidator.MapData{
		"division": []string{"required:" + services.ErrDivisionRequired.Message},
	}
)

// ValidateRegistration 解析报名请求，组别必填，超长字段按长度截断
func ValidateRegistration(c *gin.Context) (services.RegistrationInput, error) {
	var req RegistrationRequest
	if err := BindJSON(c, &req); err != nil {
		return services.RegistrationInput{}, err
	}

	fields := registrationFields{
		Division: strings.TrimSpace(cast.ToString(req.Division)),
		TeamName: strings.TrimSpace(cast.ToString(req.TeamName)),
		Note:     strings.TrimSpace(cast.ToString(req.Note)),
	}
	if err := ValidateStruct(&fields, registrationRules, registrationMessages); err != nil {
		return services.RegistrationInput{}, err
	}

	return services.RegistrationInput{
		Division: services.Truncate("division", fields.Division),
		TeamName: services.Truncate("team_name", fields.TeamName),
		Note:     services.Truncate("note", fields.Note),
	}, nil
}
