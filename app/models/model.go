// Package models 模型通用属性和方法
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// CommonTimestampsField 时间戳
type CommonTimestampsField struct {
	CreatedAt DateTime `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt DateTime `gorm:"column:updated_at" json:"updated_at"`
}

// DateTime 兼容数据库与 REST 接口多种时间格式的时间类型
//
// 云数据库 REST 接口返回的时间可能是 RFC3339、"2006-01-02 15:04:05" 或毫秒时间戳，
// 直连数据库时则由驱动返回 time.Time
type DateTime time.Time

// Now 当前时间
func Now() DateTime {
	return DateTime(time.Now())
}

// Time 转换为 time.Time
func (t DateTime) Time() time.Time {
	return time.Time(t)
}

// IsZero 是否为零值
func (t DateTime) IsZero() bool {
	return time.Time(t).IsZero()
}

// Value 实现 driver.Valuer 接口
func (t DateTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan 实现 sql.Scanner 接口
func (t *DateTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = DateTime{}
		return nil
	case time.Time:
		*t = DateTime(v)
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("invalid type for datetime: %T", value)
	}
}

// MarshalJSON 零值输出 null
func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// UnmarshalJSON 支持字符串与数字两种形式
func (t *DateTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*t = DateTime{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return t.parse(s)
	}
	ms, err := cast.ToInt64E(string(data))
	if err != nil {
		return fmt.Errorf("invalid datetime: %s", string(data))
	}
	*t = DateTime(time.UnixMilli(ms))
	return nil
}

func (t *DateTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*t = DateTime{}
		return nil
	}
	parsed, err := cast.ToTimeE(s)
	if err != nil {
		return fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	*t = DateTime(parsed)
	return nil
}
