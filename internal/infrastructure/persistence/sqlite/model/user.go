package model

type User struct {
	UserID uint64 `gorm:"column:user_id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:name;type:text;not null;uniqueIndex"`
	Role   string `gorm:"column:role;type:text;not null;index"`
}

func (User) TableName() string {
	return "users"
}
