package requests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

func newContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestValidateRoleUpdate(t *testing.T) {
	t.Run("normalizes case", func(t *testing.T) {
		c, _ := newContext(`{"role":"  Admin "}`)
		req, err := ValidateRoleUpdate(c)
		require.NoError(t, err)
		assert.Equal(t, "admin", req.Role)
	})

	t.Run("unknown role", func(t *testing.T) {
		c, w := newContext(`{"role":"superuser"}`)
		_, err := ValidateRoleUpdate(c)
		require.Error(t, err)

		var verr ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Errors, "role")

		Abort(c, err, "INVALID_ROLE")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"INVALID_ROLE"`)
	})

	t.Run("missing role", func(t *testing.T) {
		c, _ := newContext(``)
		_, err := ValidateRoleUpdate(c)
		assert.Error(t, err)
	})
}

func TestValidateProfilePatch(t *testing.T) {
	c, _ := newContext(`{"nickname":"小李","birth_year":null,"tags":"跑步,力量"}`)
	patch, err := ValidateProfilePatch(c)
	require.NoError(t, err)

	require.NotNil(t, patch.Nickname)
	assert.Equal(t, "小李", *patch.Nickname)
	assert.Nil(t, patch.Bio, "未提交的字段保持不变")
	assert.True(t, patch.HasBirthYear)
	assert.Nil(t, patch.BirthYear)
	assert.True(t, patch.HasTags)
	assert.Equal(t, "跑步,力量", patch.Tags)
}

func TestValidateRegistration(t *testing.T) {
	c, _ := newContext(`{"division":"  Open男 ","team_name":"` + strings.Repeat("队", 200) + `"}`)
	in, err := ValidateRegistration(c)
	require.NoError(t, err)

	assert.Equal(t, "Open男", in.Division)
	assert.Len(t, []rune(in.TeamName), 128)
	assert.Empty(t, in.Note)

	t.Run("组别为空", func(t *testing.T) {
		c, w := newContext(`{"division":"   ","note":"hi"}`)
		_, err := ValidateRegistration(c)

		var verr ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Errors, "division")

		Abort(c, err, "DIVISION_REQUIRED")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"DIVISION_REQUIRED"`)
		assert.Contains(t, w.Body.String(), "请选择报名组别")
	})

	t.Run("空请求体按空对象处理", func(t *testing.T) {
		c, _ := newContext(``)
		_, err := ValidateRegistration(c)

		var verr ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.NotErrorIs(t, err, ErrMalformedBody)
	})
}

func TestMalformedBody(t *testing.T) {
	c, w := newContext(`{"division":`)
	_, err := ValidateRegistration(c)
	require.ErrorIs(t, err, ErrMalformedBody)

	Abort(c, err, "INVALID_PARAMS")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_PARAMS"`)
}

func TestValidateEvent(t *testing.T) {
	t.Run("create drops unknown columns", func(t *testing.T) {
		c, _ := newContext(`{"title":"春季赛","event_date":"2026-04-01","event_time":"09:30","divisions":["A","B"],"id":99,"created_by":"x"}`)
		e, err := ValidateEventCreate(c)
		require.NoError(t, err)

		assert.Equal(t, "春季赛", e.Title)
		assert.Zero(t, e.ID)
		assert.Empty(t, e.CreatedBy)
		assert.Equal(t, models.StringList{"A", "B"}, e.Divisions)
	})

	t.Run("update parses divisions", func(t *testing.T) {
		c, _ := newContext(`{"divisions":"个人组，双人组","status":"open","_openid":"x"}`)
		values, err := ValidateEventUpdate(c)
		require.NoError(t, err)

		assert.Equal(t, models.StringList{"个人组", "双人组"}, values["divisions"])
		assert.Equal(t, "open", values["status"])
		assert.NotContains(t, values, "_openid")
	})

	t.Run("invalid time", func(t *testing.T) {
		c, _ := newContext(`{"title":"夜跑","event_date":"2026-04-01","event_time":"25:00"}`)
		_, err := ValidateEventCreate(c)
		var verr ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Errors, "event_time")
	})
}
