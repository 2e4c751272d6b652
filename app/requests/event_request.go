package requests

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boshenzh/werox-wechat-mini-program/app/models"
	"github.com/boshenzh/werox-wechat-mini-program/app/models/event"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"github.com/thedevsaddam/govalidator"
)

// EventWritableColumns 允许通过接口写入的赛事字段
var EventWritableColumns = map[string]bool{
	"title":             true,
	"description":       true,
	"location":          true,
	"latitude":          true,
	"longitude":         true,
	"event_date":        true,
	"event_time":        true,
	"start_at":          true,
	"end_at":            true,
	"cover_url":         true,
	"poster_url":        true,
	"status":            true,
	"event_type":        true,
	"format_mode":       true,
	"scoring_mode":      true,
	"time_cap_minutes":  true,
	"rounds":            true,
	"division_template": true,
	"divisions":         true,
	"max_participants":  true,
	"price_open":        true,
	"price_doubles":     true,
	"price_relay":       true,
	"base_strength":     true,
	"base_endurance":    true,
	"detail_blocks":     true,
}

type eventFields struct {
	Title     string `json:"title"`
	EventDate string `json:"event_date"`
	EventTime string `json:"event_time"`
}

var (
	eventRules = govalidator.MapData{
		"title":      []string{"max:128"},
		"event_date": []string{"date"},
		"event_time": []string{"regex:^([01][0-9]|2[0-3]):[0-5][0-9]$"},
	}
	eventMessages = govalidator.MapData{
		"title":      []string{"max:赛事标题不能超过 128 个字符"},
		"event_date": []string{"date:赛事日期格式应为 YYYY-MM-DD"},
		"event_time": []string{"regex:赛事时间格式应为 HH:mm"},
	}
)

// ValidateEventCreate 解析创建赛事请求，标题是否为空由服务层判断
func ValidateEventCreate(c *gin.Context) (*event.Event, error) {
	values, err := bindEventValues(c)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	var e event.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return &e, nil
}

// ValidateEventUpdate 解析赛事局部更新，只保留可写字段
func ValidateEventUpdate(c *gin.Context) (map[string]interface{}, error) {
	values, err := bindEventValues(c)
	if err != nil {
		return nil, err
	}
	if divisions, ok := values["divisions"]; ok {
		values["divisions"] = models.ParseStringList(divisions)
	}
	return values, nil
}

func bindEventValues(c *gin.Context) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := BindJSON(c, &body); err != nil {
		return nil, err
	}

	values := make(map[string]interface{}, len(body))
	for k, v := range body {
		if EventWritableColumns[k] {
			values[k] = v
		}
	}

	fields := &eventFields{
		Title:     strings.TrimSpace(cast.ToString(values["title"])),
		EventDate: strings.TrimSpace(cast.ToString(values["event_date"])),
		EventTime: strings.TrimSpace(cast.ToString(values["event_time"])),
	}
	// 只校验已提交的字段
	present := map[string]string{"title": fields.Title, "event_date": fields.EventDate, "event_time": fields.EventTime}
	rules := govalidator.MapData{}
	for name, value := range present {
		if value != "" {
			rules[name] = eventRules[name]
		}
	}
	if len(rules) == 0 {
		return values, nil
	}
	if err := ValidateStruct(fields, rules, eventMessages); err != nil {
		return nil, err
	}
	return values, nil
}
