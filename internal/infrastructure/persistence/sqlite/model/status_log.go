package model

type StatusLog struct {
	StatusLogID uint64  `gorm:"column:status_log_id;primaryKey;autoIncrement"`
	OrderID     uint64  `gorm:"column:order_id;not null;index"`
	FromStatus  *string `gorm:"column:from_status;type:text"`
	ToStatus    string  `gorm:"column:to_status;type:text;not null"`
	ActorID     *uint64 `gorm:"column:actor_id"`
	Note        string  `gorm:"column:note;type:text;not null"`
	CreatedAt   string  `gorm:"column:created_at;type:text;not null"`
}

func (StatusLog) TableName() string {
	return "status_logs"
}
