package model

type Issue struct {
	IssueID     uint64  `gorm:"column:issue_id;primaryKey;autoIncrement"`
	OrderID     uint64  `gorm:"column:order_id;not null;index"`
	ReviewID    *uint64 `gorm:"column:review_id;index"`
	Severity    string  `gorm:"column:severity;type:text;not null"`
	Description string  `gorm:"column:description;type:text;not null"`
}

func (Issue) TableName() string {
	return "issues"
}
