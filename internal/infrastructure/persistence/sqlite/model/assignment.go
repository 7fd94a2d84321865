package model

type Assignment struct {
	AssignmentID uint64  `gorm:"column:assignment_id;primaryKey;autoIncrement"`
	OrderID      uint64  `gorm:"column:order_id;not null;index:idx_assignments_order_role"`
	UserID       uint64  `gorm:"column:user_id;not null;index"`
	Role         string  `gorm:"column:role;type:text;not null;index:idx_assignments_order_role"`
	AssignedAt   string  `gorm:"column:assigned_at;type:text;not null"`
	StartedAt    *string `gorm:"column:started_at;type:text"`
	CompletedAt  *string `gorm:"column:completed_at;type:text"`
	IsCurrent    bool    `gorm:"column:is_current;not null;default:0"`
}

func (Assignment) TableName() string {
	return "assignments"
}
