package service

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/util"
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSONObject = errors.New("no JSON object in AI response")

// extractJSONObject 去掉 markdown 代码块后取第一个 { 到最后一个 } 之间的内容
func extractJSONObject(raw string) (string, error) {
	text := strings.ReplaceAll(raw, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", errNoJSONObject
	}
	return text[start : end+1], nil
}

// ParseOutline 解析课程大纲，缺失的章节号按顺序补齐
func ParseOutline(raw string) (*model.CourseOutline, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var outline model.CourseOutline
	if err := json.Unmarshal([]byte(obj), &outline); err != nil {
		return nil, err
	}
	if len(outline.Chapters) == 0 {
		return nil, errors.New("AI outline contains no chapters")
	}
	for i := range outline.Chapters {
		ch := &outline.Chapters[i]
		ch.ChapterNumber = i + 1
		if ch.DurationMinutes <= 0 {
			ch.DurationMinutes = util.DefaultChapterMinutes
		}
	}
	return &outline, nil
}

type GeneratedProblem struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Difficulty       string   `json:"difficulty"`
	ExpectedApproach string   `json:"expected_approach"`
	Hints            []string `json:"hints"`
}

// ParseHomework 解析作业题目，跳过没有标题或描述的条目
func ParseHomework(raw string) ([]GeneratedProblem, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Problems []GeneratedProblem `json:"problems"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, err
	}
	problems := make([]GeneratedProblem, 0, len(payload.Problems))
	for _, p := range payload.Problems {
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
			continue
		}
		if p.Difficulty == "" {
			p.Difficulty = "medium"
		}
		problems = append(problems, p)
	}
	if len(problems) == 0 {
		return nil, errors.New("AI homework contains no problems")
	}
	return problems, nil
}

type GradeResult struct {
	IsCorrect   bool   `json:"isCorrect"`
	Feedback    string `json:"feedback"`
	Suggestions string `json:"suggestions"`
}

// ParseGradeResult 无法解析时退化为关键词判断，反馈取原文前 200 个字符
func ParseGradeResult(raw string) GradeResult {
	if obj, err := extractJSONObject(raw); err == nil {
		var result GradeResult
		if err := json.Unmarshal([]byte(obj), &result); err == nil {
			return result
		}
	}
	return GradeResult{
		IsCorrect:   strings.Contains(strings.ToLower(raw), "correct"),
		Feedback:    truncate(raw, util.FallbackFeedbackLength),
		Suggestions: "",
	}
}
