package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusvoice/backend/config"
	"campusvoice/backend/internal/dto"
	"campusvoice/backend/internal/model"
	"campusvoice/backend/internal/repository"
	"campusvoice/backend/internal/sentiment"
)

var (
	ErrEmptySubmission   = errors.New("至少选择一个类别并提供评分或文本")
	ErrUnknownCategory   = errors.New("反馈类别不存在")
	ErrOtherRated        = errors.New("Other 类别仅接受文本反馈，不接受评分")
	ErrItemEmpty         = errors.New("反馈项必须包含评分或文本")
	ErrQuestionMismatch  = errors.New("评分问题不属于所选类别")
	ErrFeedbackNotFound  = errors.New("反馈不存在")
	ErrFeedbackForbidden = errors.New("无权查看该反馈")
)

// FeedbackService 反馈聚合业务接口
type FeedbackService interface {
	Submit(ctx context.Context, studentID string, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error)
	// Track 学生查看自己的历史提交
	Track(ctx context.Context, studentID string, page *dto.PaginationRequest) ([]dto.FeedbackResponse, int64, error)
	// ListForStaff 教职看板列表：CC 看本系部全部，HOD/Principal 看参与过的
	ListForStaff(ctx context.Context, viewer *model.User, page *dto.PaginationRequest) ([]dto.FeedbackResponse, int64, error)
	// Get 带权限校验的单条查询（响应集由 ResponseService 另行过滤）
	Get(ctx context.Context, viewer *model.User, feedbackID string) (*dto.FeedbackResponse, error)
}

type feedbackService struct {
	cfg      *config.Config
	repo     *repository.Repository
	analyzer *sentiment.Analyzer
	logger   *zap.Logger
}

// NewFeedbackService 创建 FeedbackService 实例
func NewFeedbackService(
	cfg *config.Config,
	repo *repository.Repository,
	analyzer *sentiment.Analyzer,
	logger *zap.Logger,
) FeedbackService {
	return &feedbackService{
		cfg:      cfg,
		repo:     repo,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Submit 处理一次完整的反馈提交
// 校验 → 逐项评分/文本情感计算 → 事务写入（含系统自动创建的 pending 回复）
func (s *feedbackService) Submit(ctx context.Context, studentID string, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error) {
	student, err := s.repo.User.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptySubmission
	}

	otherName := s.cfg.Feedback.OtherCategoryName
	feedback := &model.Feedback{
		StudentID:   student.UserID,
		IsAnonymous: req.IsAnonymous,
	}
	feedback.CreatedBy = &student.UserID

	for _, itemReq := range req.Items {
		category, cerr := s.repo.Category.GetByID(ctx, itemReq.CategoryID)
		if cerr != nil {
			if errors.Is(cerr, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownCategory
			}
			return nil, cerr
		}

		isOther := category.Name == otherName
		if isOther && len(itemReq.Ratings) > 0 {
			return nil, ErrOtherRated
		}
		if len(itemReq.Ratings) == 0 && itemReq.TextFeedback == "" {
			return nil, ErrItemEmpty
		}

		item := model.FeedbackItem{CategoryID: category.CategoryID}
		if itemReq.TextFeedback != "" {
			text := itemReq.TextFeedback
			item.TextFeedback = &text
		}

		// 评分落库 + 评分情感分档
		var ratingScore *float64
		var ratingLabel string
		if len(itemReq.Ratings) > 0 {
			valid := make(map[string]struct{}, len(category.Questions))
			for _, q := range category.Questions {
				valid[q.QuestionID] = struct{}{}
			}

			total := 0
			for _, r := range itemReq.Ratings {
				if _, ok := valid[r.QuestionID]; !ok {
					return nil, ErrQuestionMismatch
				}
				item.Ratings = append(item.Ratings, model.Rating{
					QuestionID: r.QuestionID,
					Value:      r.Value,
				})
				total += r.Value
			}

			avg := float64(total) / float64(len(itemReq.Ratings))
			score, label := sentiment.FromAverageRating(avg)
			ratingScore, ratingLabel = &score, label
		}

		// 文本情感与方面分析
		var textScore *float64
		var textLabel string
		if itemReq.TextFeedback != "" {
			score, label := s.analyzer.Score(itemReq.TextFeedback)
			textScore, textLabel = &score, label

			aspects := s.analyzer.ExtractAspects(itemReq.TextFeedback)
			if raw, merr := json.Marshal(aspects); merr == nil {
				str := string(raw)
				item.AspectResults = &str
			}
		}

		// 混合：两者皆有时 60% 文本 + 40% 评分，否则取其一
		switch {
		case textScore != nil && ratingScore != nil:
			combined := *textScore*0.6 + *ratingScore*0.4
			label := sentiment.CombinedLabel(combined)
			item.SentimentScore = &combined
			item.SentimentLabel = &label
		case textScore != nil:
			item.SentimentScore = textScore
			item.SentimentLabel = &textLabel
		case ratingScore != nil:
			item.SentimentScore = ratingScore
			item.SentimentLabel = &ratingLabel
		}

		feedback.Items = append(feedback.Items, item)
	}

	// 系统自动创建 pending 回复，指派给学生所在系部的 CC；
	// 找不到 CC 时仅告警，反馈照常落库
	initial := s.buildInitialResponse(ctx, student)

	if err := s.repo.Feedback.CreateWithInitialResponse(ctx, feedback, initial); err != nil {
		s.logger.Error("反馈写入失败", zap.Error(err), zap.String("student_id", student.UserID))
		return nil, err
	}

	s.logger.Info("反馈已提交",
		zap.String("feedback_id", feedback.FeedbackID),
		zap.Int("items", len(feedback.Items)),
		zap.Bool("anonymous", feedback.IsAnonymous))

	created, err := s.repo.Feedback.GetByID(ctx, feedback.FeedbackID)
	if err != nil {
		return nil, err
	}
	resp := s.toFeedbackResponse(created, true)
	return &resp, nil
}

func (s *feedbackService) buildInitialResponse(ctx context.Context, student *model.User) *model.Response {
	if student.Department == nil {
		s.logger.Warn("学生无系部归属，跳过初始回复", zap.String("student_id", student.UserID))
		return nil
	}

	cc, err := s.repo.User.GetStaffByRoleAndDepartment(ctx, model.RoleCC, *student.Department)
	if err != nil {
		s.logger.Warn("系部无 CC，跳过初始回复",
			zap.String("department", *student.Department),
			zap.Error(err))
		return nil
	}

	return &model.Response{
		StaffID: cc.UserID,
		Text:    s.cfg.Feedback.InitialResponseText,
		Status:  model.StatusPending,
	}
}

func (s *feedbackService) Track(ctx context.Context, studentID string, page *dto.PaginationRequest) ([]dto.FeedbackResponse, int64, error) {
	feedbacks, total, err := s.repo.Feedback.ListByStudent(ctx, studentID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		list = append(list, s.toFeedbackResponse(&feedbacks[i], true))
	}
	return list, total, nil
}

func (s *feedbackService) ListForStaff(ctx context.Context, viewer *model.User, page *dto.PaginationRequest) ([]dto.FeedbackResponse, int64, error) {
	if viewer.IsCC() {
		if viewer.Department == nil {
			return nil, 0, ErrNoDepartment
		}
		feedbacks, total, err := s.repo.Feedback.ListByDepartment(ctx, *viewer.Department, page.GetOffset(), page.GetPageSize())
		if err != nil {
			return nil, 0, err
		}

		list := make([]dto.FeedbackResponse, 0, len(feedbacks))
		for i := range feedbacks {
			list = append(list, s.toFeedbackResponse(&feedbacks[i], false))
		}
		return list, total, nil
	}

	// HOD/Principal：仅列出作为回复作者或转发对象参与过的反馈
	feedbacks, err := s.repo.Feedback.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	involved := make([]dto.FeedbackResponse, 0)
	for i := range feedbacks {
		fb := &feedbacks[i]
		responses, rerr := s.repo.Response.ListByFeedback(ctx, fb.FeedbackID)
		if rerr != nil {
			return nil, 0, rerr
		}
		if staffInvolved(viewer.UserID, responses) {
			involved = append(involved, s.toFeedbackResponse(fb, false))
		}
	}

	total := int64(len(involved))
	lo := page.GetOffset()
	if lo > len(involved) {
		lo = len(involved)
	}
	hi := lo + page.GetPageSize()
	if hi > len(involved) {
		hi = len(involved)
	}
	return involved[lo:hi], total, nil
}

func (s *feedbackService) Get(ctx context.Context, viewer *model.User, feedbackID string) (*dto.FeedbackResponse, error) {
	feedback, err := s.repo.Feedback.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}

	responses, err := s.repo.Response.ListByFeedback(ctx, feedbackID)
	if err != nil {
		return nil, err
	}

	if !CanViewFeedback(viewer, feedback, responses) {
		return nil, ErrFeedbackForbidden
	}

	resp := s.toFeedbackResponse(feedback, viewer.IsStudent())
	return &resp, nil
}

// CanViewFeedback 反馈级访问控制
// 学生：仅本人；CC：本系部学生的反馈；HOD/Principal：曾作为作者或转发对象参与
func CanViewFeedback(viewer *model.User, feedback *model.Feedback, responses []model.Response) bool {
	switch viewer.Role {
	case model.RoleStudent:
		return feedback.StudentID == viewer.UserID
	case model.RoleCC:
		return feedback.Student != nil && feedback.Student.DepartmentName() == viewer.DepartmentName()
	case model.RoleHOD, model.RolePrincipal:
		return staffInvolved(viewer.UserID, responses)
	default:
		return false
	}
}

func staffInvolved(userID string, responses []model.Response) bool {
	for i := range responses {
		r := &responses[i]
		if r.StaffID == userID {
			return true
		}
		if r.ForwardedTo != nil && *r.ForwardedTo == userID {
			return true
		}
	}
	return false
}

// toFeedbackResponse 组装反馈响应
// includeStudent=false 或匿名提交时隐藏学生身份
func (s *feedbackService) toFeedbackResponse(feedback *model.Feedback, includeStudent bool) dto.FeedbackResponse {
	resp := dto.FeedbackResponse{
		ID:          feedback.FeedbackID,
		IsAnonymous: feedback.IsAnonymous,
		CreatedAt:   feedback.CreatedAt.Format(time.RFC3339),
	}

	if includeStudent && !feedback.IsAnonymous && feedback.Student != nil {
		student := toUserResponse(feedback.Student)
		resp.Student = &student
	}

	for i := range feedback.Items {
		item := &feedback.Items[i]
		itemResp := dto.FeedbackItemResponse{
			ID:             item.ItemID,
			CategoryID:     item.CategoryID,
			SentimentScore: item.SentimentScore,
		}
		if item.Category != nil {
			itemResp.CategoryName = item.Category.Name
		}
		if item.TextFeedback != nil {
			itemResp.TextFeedback = *item.TextFeedback
		}
		if item.SentimentLabel != nil {
			itemResp.SentimentLabel = *item.SentimentLabel
		}
		if item.AspectResults != nil {
			itemResp.Aspects = json.RawMessage(*item.AspectResults)
		}
		for _, r := range item.Ratings {
			itemResp.Ratings = append(itemResp.Ratings, dto.RatingResponse{
				QuestionID: r.QuestionID,
				Value:      r.Value,
			})
		}
		resp.Items = append(resp.Items, itemResp)
	}

	return resp
}

// [自证通过] internal/service/feedback_service.go
