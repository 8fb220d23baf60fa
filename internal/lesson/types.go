// Package lesson generates structured, quiz-bearing lessons from the AI backend.
package lesson

// LessonContent is one generated lesson. It lives only as long as the view
// that requested it and is never persisted.
type LessonContent struct {
	Title        string         `json:"title"`
	Introduction string         `json:"introduction"`
	CoreContent  string         `json:"coreContent"` // markdown
	SafetyTip    string         `json:"safetyTip"`
	Quiz         []QuizQuestion `json:"quiz"`
}

// QuizQuestion is a multiple-choice question. CorrectIndex is a valid index
// into Options.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}
