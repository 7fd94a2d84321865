package model

type ChecklistTemplate struct {
	TemplateID uint64 `gorm:"column:template_id;primaryKey;autoIncrement"`
	Role       string `gorm:"column:role;type:text;not null;index"`
	Title      string `gorm:"column:title;type:text;not null"`
	Position   int    `gorm:"column:position;not null;default:0"`
}

func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}

type ChecklistItem struct {
	ItemID     uint64  `gorm:"column:item_id;primaryKey;autoIncrement"`
	OrderID    uint64  `gorm:"column:order_id;not null;index"`
	TemplateID uint64  `gorm:"column:template_id;not null"`
	Checked    bool    `gorm:"column:checked;not null;default:0"`
	CheckedAt  *string `gorm:"column:checked_at;type:text"`
	CheckedBy  *uint64 `gorm:"column:checked_by"`
}

func (ChecklistItem) TableName() string {
	return "checklist_items"
}
