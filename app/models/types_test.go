package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	cases := []struct {
		name string
		raw  interface{}
		want StringList
	}{
		{"数组", []interface{}{"A", "B"}, StringList{"A", "B"}},
		{"JSON 字符串", `["A","B"]`, StringList{"A", "B"}},
		{"逗号分隔", "A, B", StringList{"A", "B"}},
		{"中文逗号", "A，B，", StringList{"A", "B"}},
		{"空值", nil, StringList{}},
		{"无法识别", 12, StringList{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ParseStringList(c.raw))
		})
	}
}

func TestStringListJSON(t *testing.T) {
	var l StringList
	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	require.NoError(t, json.Unmarshal([]byte(`"x,y"`), &l))
	assert.Equal(t, StringList{"x", "y"}, l)
}

func TestFloatAndBool(t *testing.T) {
	var v struct {
		Price Float `json:"price"`
		Flag  Bool  `json:"flag"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"99.50","flag":1}`), &v))
	assert.Equal(t, Float(99.5), v.Price)
	assert.True(t, bool(v.Flag))

	require.NoError(t, json.Unmarshal([]byte(`{"price":null,"flag":"false"}`), &v))
	assert.Equal(t, Float(0), v.Price)
	assert.False(t, bool(v.Flag))

	assert.Equal(t, Float(6.7), Float(6.66).Round1())
}

func TestDateTime(t *testing.T) {
	var d DateTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-05-01T08:00:00Z"`), &d))
	assert.True(t, d.Time().Equal(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)))

	require.NoError(t, json.Unmarshal([]byte(`1777622400000`), &d))
	assert.Equal(t, int64(1777622400000), d.Time().UnixMilli())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}
