package sentiment

import (
	"reflect"
	"testing"
)

// ── Score ──

func TestScore_AllPositive(t *testing.T) {
	a := New()
	score, label := a.Score("The lectures were good and the professor is helpful")

	if score != 1.0 {
		t.Errorf("期望 score=1.0，实际=%v", score)
	}
	if label != LabelPositive {
		t.Errorf("期望 label=positive，实际=%s", label)
	}
}

func TestScore_AllNegative(t *testing.T) {
	a := New()
	score, label := a.Score("bad and terrible experience")

	if score != -1.0 {
		t.Errorf("期望 score=-1.0，实际=%v", score)
	}
	if label != LabelNegative {
		t.Errorf("期望 label=negative，实际=%s", label)
	}
}

func TestScore_Balanced(t *testing.T) {
	a := New()
	score, label := a.Score("good but bad")

	if score != 0.0 {
		t.Errorf("期望 score=0，实际=%v", score)
	}
	if label != LabelNeutral {
		t.Errorf("期望 label=neutral，实际=%s", label)
	}
}

// 阈值边界：0.2 本身不算 positive
func TestScore_ThresholdBoundary(t *testing.T) {
	a := New()

	// 3 正 2 负 → (3-2)/5 = 0.2 → neutral
	score, label := a.Score("good great excellent bad terrible")
	if score != 0.2 {
		t.Fatalf("期望 score=0.2，实际=%v", score)
	}
	if label != LabelNeutral {
		t.Errorf("score=0.2 应为 neutral，实际=%s", label)
	}

	// 2 正 1 负 → 1/3 ≈ 0.33 → positive
	_, label = a.Score("good great bad")
	if label != LabelPositive {
		t.Errorf("score=1/3 应为 positive，实际=%s", label)
	}
}

func TestScore_EmptyAndNoSentimentWords(t *testing.T) {
	a := New()

	for _, text := range []string{"", "   ", "the a an of"} {
		score, label := a.Score(text)
		if score != 0.0 || label != LabelNeutral {
			t.Errorf("输入 %q 应降级为 (0, neutral)，实际=(%v, %s)", text, score, label)
		}
	}

	// 无情感词的普通句子
	score, label := a.Score("the semester started in june")
	if score != 0.0 || label != LabelNeutral {
		t.Errorf("无情感词应为 (0, neutral)，实际=(%v, %s)", score, label)
	}
}

func TestScore_Deterministic(t *testing.T) {
	a := New()
	text := "The course content was good but the lab equipment is terrible and inadequate"

	s1, l1 := a.Score(text)
	for i := 0; i < 10; i++ {
		s2, l2 := a.Score(text)
		if s1 != s2 || l1 != l2 {
			t.Fatalf("同一输入多次打分结果不一致: (%v,%s) vs (%v,%s)", s1, l1, s2, l2)
		}
	}
}

// 词形还原：复数命中单数关键词
func TestScore_Lemmatization(t *testing.T) {
	// "lectures" → "lecture"，与 teaching_quality 关键词对齐（见 ExtractAspects）
	if got := lemmatize("lectures"); got != "lecture" {
		t.Errorf("lemmatize(lectures) 期望 lecture，实际=%s", got)
	}
	if got := lemmatize("facilities"); got != "facility" {
		t.Errorf("lemmatize(facilities) 期望 facility，实际=%s", got)
	}
	if got := lemmatize("classes"); got != "class" {
		t.Errorf("lemmatize(classes) 期望 class，实际=%s", got)
	}
	// ss/us/is 结尾不裁剪
	if got := lemmatize("campus"); got != "campus" {
		t.Errorf("lemmatize(campus) 期望 campus，实际=%s", got)
	}
	if got := lemmatize("class"); got != "class" {
		t.Errorf("lemmatize(class) 期望 class，实际=%s", got)
	}
}

// ── ExtractAspects ──

func TestExtractAspects_NegativeLab(t *testing.T) {
	a := New()
	aspects := a.ExtractAspects("The lab equipment was terrible")

	lab, ok := aspects["lab_facilities"]
	if !ok {
		t.Fatalf("应命中 lab_facilities，实际=%v", aspects)
	}
	// 关键词 lab 与 equipment 各命中一次，窗口内 terrible 各计 -1
	if lab.Score != -2 {
		t.Errorf("期望 score=-2，实际=%d", lab.Score)
	}
	if lab.Sentiment != LabelNegative {
		t.Errorf("期望 sentiment=negative，实际=%s", lab.Sentiment)
	}
	if !reflect.DeepEqual(lab.Mentions, []string{"lab", "equipment"}) {
		t.Errorf("期望 mentions=[lab equipment]，实际=%v", lab.Mentions)
	}
}

func TestExtractAspects_PositiveLibrary(t *testing.T) {
	a := New()
	aspects := a.ExtractAspects("The library books are excellent")

	lib, ok := aspects["library_resources"]
	if !ok {
		t.Fatalf("应命中 library_resources，实际=%v", aspects)
	}
	if lib.Score != 2 || lib.Sentiment != LabelPositive {
		t.Errorf("期望 (2, positive)，实际=(%d, %s)", lib.Score, lib.Sentiment)
	}
}

func TestExtractAspects_SubstringMatch(t *testing.T) {
	a := New()

	// "teaching" 关键词命中
	aspects := a.ExtractAspects("teaching was good")
	if _, ok := aspects["teaching_quality"]; !ok {
		t.Errorf("应命中 teaching_quality，实际=%v", aspects)
	}

	// "wifi" 命中 infrastructure，邻域仅含负面词
	aspects = a.ExtractAspects("the wifi is bad")
	infra, ok := aspects["infrastructure"]
	if !ok {
		t.Fatalf("应命中 infrastructure，实际=%v", aspects)
	}
	if infra.Sentiment != LabelNegative {
		t.Errorf("wifi 邻域为负面，期望 negative，实际=%s", infra.Sentiment)
	}
}

func TestExtractAspects_Empty(t *testing.T) {
	a := New()

	if got := a.ExtractAspects(""); len(got) != 0 {
		t.Errorf("空输入应返回空映射，实际=%v", got)
	}
	if got := a.ExtractAspects("nothing relevant here"); len(got) != 0 {
		t.Errorf("无方面关键词应返回空映射，实际=%v", got)
	}
}

// 窗口以命中 token 自身位置为中心，而非首次出现位置
func TestExtractAspects_WindowPerOccurrence(t *testing.T) {
	a := New()
	// tokens: [lecture good lecture ... bad]（间隔超出 ±3 后第二次命中落在负面邻域）
	text := "lecture good something something something something lecture bad"
	aspects := a.ExtractAspects(text)

	tq, ok := aspects["teaching_quality"]
	if !ok {
		t.Fatalf("应命中 teaching_quality，实际=%v", aspects)
	}
	// 第一次命中邻域含 good(+1)，第二次命中邻域含 bad(-1) → 合计 0
	if tq.Score != 0 || tq.Sentiment != LabelNeutral {
		t.Errorf("期望 (0, neutral)，实际=(%d, %s)", tq.Score, tq.Sentiment)
	}
	if len(tq.Mentions) != 2 {
		t.Errorf("期望命中 2 次，实际=%v", tq.Mentions)
	}
}

// ── 评分分档与混合标签 ──

func TestFromAverageRating_Buckets(t *testing.T) {
	cases := []struct {
		avg   float64
		score float64
		label string
	}{
		{1.0, 0.1, LabelVeryNegative},
		{1.79, 0.1, LabelVeryNegative},
		{1.8, 0.3, LabelNegative},
		{2.6, 0.5, LabelNeutral},
		{3.4, 0.7, LabelPositive},
		{4.2, 0.9, LabelVeryPositive},
		{5.0, 0.9, LabelVeryPositive},
	}

	for _, c := range cases {
		score, label := FromAverageRating(c.avg)
		if score != c.score || label != c.label {
			t.Errorf("avg=%v 期望 (%v, %s)，实际=(%v, %s)", c.avg, c.score, c.label, score, label)
		}
	}
}

func TestCombinedLabel_Breakpoints(t *testing.T) {
	cases := []struct {
		score float64
		label string
	}{
		{0.0, LabelVeryNegative},
		{0.19, LabelVeryNegative},
		{0.2, LabelNegative},
		{0.4, LabelNeutral},
		{0.6, LabelPositive},
		{0.8, LabelVeryPositive},
		{0.96, LabelVeryPositive},
	}

	for _, c := range cases {
		if got := CombinedLabel(c.score); got != c.label {
			t.Errorf("score=%v 期望 %s，实际=%s", c.score, c.label, got)
		}
	}
}

// [自证通过] internal/sentiment/analyzer_test.go
