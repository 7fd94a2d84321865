package model

type Review struct {
	ReviewID   uint64 `gorm:"column:review_id;primaryKey;autoIncrement"`
	OrderID    uint64 `gorm:"column:order_id;not null;index"`
	ReviewerID uint64 `gorm:"column:reviewer_id;not null"`
	Role       string `gorm:"column:role;type:text;not null"`
	Approved   bool   `gorm:"column:approved;not null"`
	Comment    string `gorm:"column:comment;type:text;not null"`
	ReviewedAt string `gorm:"column:reviewed_at;type:text;not null"`
}

func (Review) TableName() string {
	return "reviews"
}
