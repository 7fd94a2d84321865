package model

type Order struct {
	OrderID            uint64  `gorm:"column:order_id;primaryKey;autoIncrement"`
	ExternalOrderID    *string `gorm:"column:external_order_id;type:text;uniqueIndex"`
	OrderNumber        string  `gorm:"column:order_number;type:text;not null;uniqueIndex"`
	Status             string  `gorm:"column:status;type:text;not null;index"`
	Priority           string  `gorm:"column:priority;type:text;not null;default:regular"`
	Source             string  `gorm:"column:source;type:text;not null"`
	Address            string  `gorm:"column:address;type:text;not null"`
	Instruction        string  `gorm:"column:instruction;type:text;not null"`
	DueAt              *string `gorm:"column:due_at;type:text;index"`
	OrderPlacedAt      *string `gorm:"column:order_placed_at;type:text"`
	AssignedAt         *string `gorm:"column:assigned_at;type:text"`
	DrawerStartedAt    *string `gorm:"column:drawer_started_at;type:text"`
	DrawerCompletedAt  *string `gorm:"column:drawer_completed_at;type:text"`
	CheckerStartedAt   *string `gorm:"column:checker_started_at;type:text"`
	CheckerCompletedAt *string `gorm:"column:checker_completed_at;type:text"`
	QaStartedAt        *string `gorm:"column:qa_started_at;type:text"`
	QaCompletedAt      *string `gorm:"column:qa_completed_at;type:text"`
	CreatedAt          string  `gorm:"column:created_at;type:text;not null"`
}

func (Order) TableName() string {
	return "orders"
}
