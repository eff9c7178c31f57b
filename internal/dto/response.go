package dto

import "encoding/json"

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
}

// UserDetailResponse 用户详细信息（GET /auth/me）
type UserDetailResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
	DOB        string `json:"dob,omitempty"`
	Address    string `json:"address,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ── 类别目录响应 ──

// QuestionResponse 评分问题
type QuestionResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	SortOrder int    `json:"sort_order"`
}

// CategoryResponse 反馈类别（含问题清单）
type CategoryResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Questions   []QuestionResponse `json:"questions"`
}

// ── 反馈响应 ──

// RatingResponse 单问题评分
type RatingResponse struct {
	QuestionID string `json:"question_id"`
	Value      int    `json:"value"`
}

// FeedbackItemResponse 单类别反馈项（含情感分析结果）
type FeedbackItemResponse struct {
	ID             string           `json:"id"`
	CategoryID     string           `json:"category_id"`
	CategoryName   string           `json:"category_name"`
	TextFeedback   string           `json:"text_feedback,omitempty"`
	Ratings        []RatingResponse `json:"ratings,omitempty"`
	SentimentScore *float64         `json:"sentiment_score,omitempty"`
	SentimentLabel string           `json:"sentiment_label,omitempty"`
	Aspects        json.RawMessage  `json:"aspects,omitempty"`
}

// FeedbackResponse 反馈提交
// 匿名提交时 Student 为 nil，学生身份对所有教职隐藏
type FeedbackResponse struct {
	ID          string                 `json:"id"`
	IsAnonymous bool                   `json:"is_anonymous"`
	Student     *UserResponse          `json:"student,omitempty"`
	Items       []FeedbackItemResponse `json:"items"`
	CreatedAt   string                 `json:"created_at"`
}

// ── 回复线程响应 ──

// ResponseItem 单条回复
type ResponseItem struct {
	ID              string `json:"id"`
	FeedbackID      string `json:"feedback_id"`
	StaffID         string `json:"staff_id"`
	StaffName       string `json:"staff_name"`
	StaffRole       string `json:"staff_role"`
	Text            string `json:"text"`
	Status          string `json:"status"`
	ForwardedToID   string `json:"forwarded_to_id,omitempty"`
	ForwardedToName string `json:"forwarded_to_name,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// ThreadNode 线程树节点
// Placeholder=true 表示父回复对当前观察者不可见，仅作挂载点，Response 为 nil
type ThreadNode struct {
	Placeholder bool          `json:"placeholder"`
	Response    *ResponseItem `json:"response,omitempty"`
	Children    []*ThreadNode `json:"children"`
}

// ── 私信响应 ──

// MessageResponse 单条私信
type MessageResponse struct {
	ID            string `json:"id"`
	SenderID      string `json:"sender_id"`
	SenderName    string `json:"sender_name,omitempty"`
	RecipientID   string `json:"recipient_id"`
	RecipientName string `json:"recipient_name,omitempty"`
	Body          string `json:"body"`
	IsRead        bool   `json:"is_read"`
	CreatedAt     string `json:"created_at"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// RecipientResponse 可选收件人
type RecipientResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// ── 统计响应 ──

// CategoryAverage 类别平均评分
type CategoryAverage struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	AvgRating    float64 `json:"avg_rating"`
	RatingCount  int64   `json:"rating_count"`
}

// QuestionAverage 问题平均评分
type QuestionAverage struct {
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question_text"`
	AvgRating    float64 `json:"avg_rating"`
	RatingCount  int64   `json:"rating_count"`
}

// SentimentBucket 情感标签分布
type SentimentBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// WeeklyTrendPoint 按周情感走势
type WeeklyTrendPoint struct {
	WeekStart string  `json:"week_start"`
	AvgScore  float64 `json:"avg_score"`
	ItemCount int64   `json:"item_count"`
}

// AnalyticsSummary 汇总统计
type AnalyticsSummary struct {
	TotalFeedbacks   int64              `json:"total_feedbacks"`
	TotalStudents    int64              `json:"total_students"`
	CategoryAverages []CategoryAverage  `json:"category_averages"`
	Sentiment        []SentimentBucket  `json:"sentiment_distribution"`
	WeeklyTrend      []WeeklyTrendPoint `json:"weekly_trend"`
	StatusCounts     map[string]int64   `json:"status_counts"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// [自证通过] internal/dto/response.go
