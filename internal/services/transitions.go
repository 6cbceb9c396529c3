package services

import (
	"fmt"

	"github.com/Fork0n/open-hoot/internal/models"
)

// Lifecycle transitions applied to a session document inside a store
// transaction. Each helper validates legality against the current status and
// mutates the document in place; the store only commits when nil is returned.

func applySetQuiz(s *models.Session, questions []models.Question) error {
	if s.Status != models.SessionStatusWaiting {
		return fmt.Errorf("%w: cannot set quiz while %s", ErrIllegalTransition, s.Status)
	}
	s.Quiz = questions
	return nil
}

func applyStart(s *models.Session) error {
	if s.Status != models.SessionStatusWaiting {
		return fmt.Errorf("%w: cannot start from %s", ErrIllegalTransition, s.Status)
	}
	if len(s.Quiz) == 0 {
		return fmt.Errorf("%w: quiz is empty", ErrIllegalTransition)
	}
	s.Status = models.SessionStatusStarted
	s.CurrentQuestion = 0
	s.Answered = make(map[string]int)
	return nil
}

// applyAdvance moves to the next question, or to ended when the quiz is
// exhausted. Advancing an already ended session is a no-op so duplicate
// host retries over a flaky connection never surface an error.
func applyAdvance(s *models.Session) error {
	switch s.Status {
	case models.SessionStatusEnded:
		return nil
	case models.SessionStatusWaiting:
		return fmt.Errorf("%w: cannot advance before start", ErrIllegalTransition)
	}

	if s.CurrentQuestion+1 < len(s.Quiz) {
		s.CurrentQuestion++
		s.Answered = make(map[string]int)
		return nil
	}
	s.Status = models.SessionStatusEnded
	return nil
}

// applyEnd terminates the session from waiting (abandoned lobby) or started
// (host cut the game short). There is no transition out of ended.
func applyEnd(s *models.Session) error {
	if s.Status == models.SessionStatusEnded {
		return fmt.Errorf("%w: session already ended", ErrIllegalTransition)
	}
	s.Status = models.SessionStatusEnded
	return nil
}
