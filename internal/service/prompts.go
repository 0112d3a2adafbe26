package service

import (
	"fmt"
	"strings"
)

func outlinePrompt(req OutlineRequest) string {
	return fmt.Sprintf(`You are an expert educational content creator. Generate a course structure for:

Topic: %s
Difficulty Level: %s
Duration: %d weeks
Language: %s
Category: %s

Respond with JSON only, using this structure:
{
  "courseTitle": "Complete course title",
  "description": "Course description (2-3 sentences)",
  "chapters": [
    {
      "chapterNumber": 1,
      "title": "Chapter title",
      "description": "Chapter description",
      "durationMinutes": 45,
      "topics": [
        {
          "topicName": "Topic name",
          "explanation": "Detailed explanation in %s",
          "keyPoints": ["point 1", "point 2", "point 3"],
          "examples": [{"problem": "Example problem", "solution": "Solution", "explanation": "Explanation"}],
          "practiceQuestions": [{"question": "Practice question", "difficulty": "easy|medium|hard", "hint": "Helpful hint"}]
        }
      ]
    }
  ]
}

Generate exactly %d chapters with 3-5 topics each, suitable for %s level learners.`,
		req.Topic, req.Difficulty, req.Duration, req.Language, req.Category,
		req.Language, req.ChapterCount, req.Difficulty)
}

func notesPrompt(req NotesRequest) string {
	return fmt.Sprintf(`You are an expert teacher. Create detailed study notes for:

Chapter: %s
Subject: %s
Difficulty: %s
Language: %s

Cover an overview, key concepts, important definitions, real-world examples, common mistakes and practice tips.
Write in a friendly tone for %s level students, in %s, formatted as clean markdown.`,
		req.ChapterTitle, req.Topic, req.Difficulty, req.Language, req.Difficulty, req.Language)
}

func homeworkPrompt(req HomeworkRequest) string {
	return fmt.Sprintf(`You are an expert teacher creating homework for a chapter.

Course: %s
Chapter: %s
Description: %s
Chapter Notes:
%s

Create 3-5 practice problems that test understanding of this chapter.
Respond with JSON only:
{"problems":[{"title":"...","description":"...","difficulty":"easy|medium|hard","expected_approach":"...","hints":["hint 1","hint 2","hint 3"]}]}`,
		req.CourseTitle, req.ChapterTitle, req.ChapterDescription, req.ChapterNotes)
}

func gradePrompt(req GradeRequest) string {
	solution := req.Solution
	if solution == "" {
		solution = "(Solution provided as image)"
	}
	approach := req.ExpectedApproach
	if approach == "" {
		approach = "Any correct approach"
	}
	return fmt.Sprintf(`You are an expert tutor checking a student's homework solution.

Chapter: %s
Chapter Notes: %s
Problem: %s
Description: %s
Expected Approach: %s

Student's Solution:
%s

Evaluate whether the solution is correct and complete.
Respond with ONLY a JSON object:
{"isCorrect":true/false,"feedback":"brief 2-3 sentence feedback","suggestions":"brief tip if needed"}`,
		req.ChapterTitle, req.ChapterNotes, req.ProblemTitle, req.Description, approach, solution)
}

func hintPrompt(req HintRequest) string {
	return fmt.Sprintf(`You are helping a student who is stuck on a homework problem.

Chapter: %s
Problem: %s
Description: %s

Give an encouraging hint (2-3 sentences) that points toward the approach without revealing the full solution.`,
		req.ChapterTitle, req.ProblemTitle, req.Description)
}

func chatPrompt(req ChatRequest) string {
	var history strings.Builder
	if len(req.History) > 0 {
		history.WriteString("\n\nPrevious conversation:\n")
		for _, turn := range req.History {
			speaker := "Tutor"
			if turn.Role == "user" {
				speaker = "Student"
			}
			fmt.Fprintf(&history, "%s: %s\n", speaker, turn.Content)
		}
	}

	notes := req.ChapterNotes
	if notes == "" {
		notes = "No specific notes provided for this chapter."
	}

	return fmt.Sprintf(`You are an expert AI tutor helping a student understand "%s".

Chapter Notes/Context:
%s
%s
Student's Question: %s

Answer based on the chapter notes, clearly and simply, with examples when helpful.
If the question is unrelated to this chapter, politely redirect the student.`,
		req.ChapterTitle, notes, history.String(), req.Message)
}
