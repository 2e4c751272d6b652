package services

import (
	"strings"

	"github.com/spf13/cast"
)

// Page 分页参数
type Page struct {
	Offset int
	Limit  int
}

// ParsePage 解析 offset/limit 查询参数。limit 缺失或非数字时取 def，否则限制在 [1, max]；offset 不小于 0
func ParsePage(rawOffset, rawLimit string, def, max int) Page {
	limit := def
	if v, err := cast.ToIntE(strings.TrimSpace(rawLimit)); err == nil && strings.TrimSpace(rawLimit) != "" {
		limit = clamp(v, 1, max)
	}
	offset := 0
	if v, err := cast.ToIntE(strings.TrimSpace(rawOffset)); err == nil && v > 0 {
		offset = v
	}
	return Page{Offset: offset, Limit: limit}
}

// Normalize 将代码内构造的分页参数限制在合法范围
func (p Page) Normalize(def, max int) Page {
	if p.Limit == 0 {
		p.Limit = def
	}
	p.Limit = clamp(p.Limit, 1, max)
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Pagination 分页信息
type Pagination struct {
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	HasMore    bool `json:"has_more"`
	NextOffset *int `json:"next_offset"`
}

// newPagination 多取一行判断是否还有下一页
func newPagination(p Page, fetched int) Pagination {
	pg := Pagination{Offset: p.Offset, Limit: p.Limit, HasMore: fetched > p.Limit}
	if pg.HasMore {
		next := p.Offset + p.Limit
		pg.NextOffset = &next
	}
	return pg
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
