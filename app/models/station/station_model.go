// Package station 赛事站点
package station

// Station 赛事中的一个站点，按 station_order 排序
type Station struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	EventID      int64  `gorm:"column:event_id;index" json:"event_id"`
	StationOrder int    `json:"station_order"`
	StationName  string `gorm:"type:varchar(128)" json:"station_name"`
	StationType  string `gorm:"type:varchar(64)" json:"station_type"`
	Description  string `gorm:"type:text" json:"description"`
}

// TableName 表名
func (Station) TableName() string {
	return "event_stations"
}
