package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	cases := []struct {
		limit string
		want  float64
	}{
		{"5-S", 5},
		{"60-M", 1},
		{"3600-H", 1},
		{"86400-D", 1},
	}
	for _, tc := range cases {
		t.Run(tc.limit, func(t *testing.T) {
			r, err := ParseLimit(tc.limit)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, r.Rate, 1e-9)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		for _, limit := range []string{"", "abc", "5-X", "5"} {
			_, err := ParseLimit(limit)
			assert.Error(t, err, limit)
		}
	})
}

func TestKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var routeIP, routeSubject string
	r.GET("/v1/events/:id/registrations", func(c *gin.Context) {
		routeIP = GetKeyRouteWithSubject(c)
		c.Set(SubjectContextKey, "o-1")
		routeSubject = GetKeyRouteWithSubject(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/events/3/registrations", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "-v1-events-_id-registrations10.0.0.1", routeIP)
	assert.Equal(t, "-v1-events-_id-registrationso-1", routeSubject)
}

func TestCheckRate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	for i := 0; i < 2; i++ {
		result, err := CheckRate(c, "check-rate-test", "2-M")
		require.NoError(t, err)
		assert.False(t, result.Reached)
	}
	result, err := CheckRate(c, "check-rate-test", "2-M")
	require.NoError(t, err)
	assert.True(t, result.Reached)
	assert.Equal(t, int64(0), result.Remaining)

	_, err = CheckRate(c, "check-rate-test", "bad")
	assert.Error(t, err)
}
