package lesson

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNoSuchQuestion  = errors.New("no such question")
	ErrNoSuchOption    = errors.New("no such option")
)

const unanswered = -1

// AnswerResult is revealed once a question has been answered.
type AnswerResult struct {
	Question     int    `json:"question"`
	Selected     int    `json:"selected"`
	CorrectIndex int    `json:"correctIndex"`
	Correct      bool   `json:"correct"`
	Explanation  string `json:"explanation"`
}

// Quiz tracks a learner's answers for one lesson. Each question takes exactly
// one answer; the first choice sticks.
type Quiz struct {
	questions []QuizQuestion
	selected  []int
}

// NewQuiz starts an unanswered quiz over the lesson's questions.
func NewQuiz(questions []QuizQuestion) *Quiz {
	selected := make([]int, len(questions))
	for i := range selected {
		selected[i] = unanswered
	}
	return &Quiz{questions: questions, selected: selected}
}

// Answer records the option chosen for a question and reveals the result.
func (q *Quiz) Answer(question, option int) (AnswerResult, error) {
	if question < 0 || question >= len(q.questions) {
		return AnswerResult{}, fmt.Errorf("%w: %d", ErrNoSuchQuestion, question)
	}
	qq := q.questions[question]
	if option < 0 || option >= len(qq.Options) {
		return AnswerResult{}, fmt.Errorf("%w: %d", ErrNoSuchOption, option)
	}
	if q.selected[question] != unanswered {
		return q.result(question), ErrAlreadyAnswered
	}
	q.selected[question] = option
	return q.result(question), nil
}

// Result returns the revealed result for an answered question.
func (q *Quiz) Result(question int) (AnswerResult, bool) {
	if question < 0 || question >= len(q.questions) || q.selected[question] == unanswered {
		return AnswerResult{}, false
	}
	return q.result(question), true
}

// Score counts correct and answered questions.
func (q *Quiz) Score() (correct, answered, total int) {
	for i, sel := range q.selected {
		if sel == unanswered {
			continue
		}
		answered++
		if sel == q.questions[i].CorrectIndex {
			correct++
		}
	}
	return correct, answered, len(q.questions)
}

func (q *Quiz) result(question int) AnswerResult {
	qq := q.questions[question]
	sel := q.selected[question]
	return AnswerResult{
		Question:     question,
		Selected:     sel,
		CorrectIndex: qq.CorrectIndex,
		Correct:      sel == qq.CorrectIndex,
		Explanation:  qq.Explanation,
	}
}
