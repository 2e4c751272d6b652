package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// Float 兼容字符串形式的小数（如 DECIMAL 列经 REST 接口返回 "99.00"）
type Float float64

// Float64 转换为 float64
func (f Float) Float64() float64 {
	return float64(f)
}

// Round1 保留一位小数
func (f Float) Round1() Float {
	return Float(math.Round(float64(f)*10) / 10)
}

// Value 实现 driver.Valuer 接口
func (f Float) Value() (driver.Value, error) {
	return float64(f), nil
}

// Scan 实现 sql.Scanner 接口
func (f *Float) Scan(value interface{}) error {
	if value == nil {
		*f = 0
		return nil
	}
	if b, ok := value.([]byte); ok {
		value = string(b)
	}
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return fmt.Errorf("invalid type for float: %w", err)
	}
	*f = Float(v)
	return nil
}

// UnmarshalJSON 支持数字、数字字符串与 null
func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return f.Scan(strings.TrimSpace(s))
	}
	return f.Scan(string(data))
}

// Bool 兼容 0/1 与 "true"/"false" 形式的布尔值
type Bool bool

// Value 实现 driver.Valuer 接口
func (b Bool) Value() (driver.Value, error) {
	return bool(b), nil
}

// Scan 实现 sql.Scanner 接口
func (b *Bool) Scan(value interface{}) error {
	if value == nil {
		*b = false
		return nil
	}
	if raw, ok := value.([]byte); ok {
		value = string(raw)
	}
	v, err := cast.ToBoolE(value)
	if err != nil {
		return fmt.Errorf("invalid type for bool: %w", err)
	}
	*b = Bool(v)
	return nil
}

// UnmarshalJSON 支持布尔、数字、字符串与 null
func (b *Bool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*b = false
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return b.Scan(s)
	}
	return b.Scan(string(data))
}

// listSeparator 英文逗号或中文逗号
var listSeparator = regexp.MustCompile(`,|，`)

// StringList 以 JSON 文本存储的字符串列表
//
// 读取时兼容三种形式：JSON 数组、JSON 数组字符串、逗号分隔字符串
type StringList []string

// ParseStringList 解析字符串列表，无法识别时返回空列表
func ParseStringList(raw interface{}) StringList {
	switch v := raw.(type) {
	case nil:
		return StringList{}
	case StringList:
		return v
	case []string:
		return StringList(v)
	case []interface{}:
		list := make(StringList, 0, len(v))
		for _, item := range v {
			list = append(list, cast.ToString(item))
		}
		return list
	case []byte:
		return ParseStringList(string(v))
	case string:
		var parsed []interface{}
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			return ParseStringList(parsed)
		}
		list := StringList{}
		for _, item := range listSeparator.Split(v, -1) {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		return list
	default:
		return StringList{}
	}
}

// String 转换为 JSON 文本
func (l StringList) String() string {
	if len(l) == 0 {
		return "[]"
	}
	b, _ := json.Marshal([]string(l))
	return string(b)
}

// Value 实现 driver.Valuer 接口
func (l StringList) Value() (driver.Value, error) {
	return l.String(), nil
}

// Scan 实现 sql.Scanner 接口
func (l *StringList) Scan(value interface{}) error {
	*l = ParseStringList(value)
	return nil
}

// MarshalJSON 始终输出数组
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON 兼容数组与字符串
func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = ParseStringList(raw)
	return nil
}
