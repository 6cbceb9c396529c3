package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Fork0n/open-hoot/internal/models"
	"github.com/Fork0n/open-hoot/internal/store"
)

// storeRetryAttempts bounds the transient-contention retry policy applied
// uniformly to every store transaction. This is distinct from the semantic
// code-allocation retry in CodeAllocator.
const (
	storeRetryAttempts = 5
	storeRetryBackoff  = 20 * time.Millisecond
)

// SessionService orchestrates the session lifecycle. Every mutating
// operation is one transactional read-modify-write against the store, so it
// stays correct under any number of concurrent callers per session.
type SessionService struct {
	store       store.SessionStore
	scoring     *ScoringService
	codes       *CodeAllocator
	fetcher     *QuizFetcher
	playerLimit int

	notify func(code string, view *SessionView)
}

func NewSessionService(st store.SessionStore, scoring *ScoringService, fetcher *QuizFetcher, playerLimit int) *SessionService {
	return &SessionService{
		store:       st,
		scoring:     scoring,
		codes:       NewCodeAllocator(st),
		fetcher:     fetcher,
		playerLimit: playerLimit,
	}
}

// OnUpdate registers the callback invoked with the resulting view after
// every successful mutating operation. Must be set before the service is
// shared between goroutines.
func (s *SessionService) OnUpdate(fn func(code string, view *SessionView)) {
	s.notify = fn
}

// Create allocates a code, stores a fresh waiting session under it and
// returns the canonical code.
func (s *SessionService) Create(ctx context.Context) (string, error) {
	code, err := s.codes.Allocate(ctx)
	if err != nil {
		return "", err
	}
	return code, nil
}

// Join adds a player to a waiting session and returns the player along with
// the view of the session state the join committed. Joining with an id that
// is already present is a successful no-op so network retries are harmless.
// An empty player id gets a server-assigned one. Late joins after start are
// rejected and leave the player set unchanged.
func (s *SessionService) Join(ctx context.Context, code, playerID, nickname, avatar string) (*models.Player, *SessionView, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, nil, err
	}
	if playerID == "" {
		playerID = uuid.NewString()
	}

	var joined models.Player
	sess, err := s.mutate(ctx, code, func(sess *models.Session) error {
		if p, ok := sess.Players[playerID]; ok {
			joined = p
			return nil
		}
		if sess.Status != models.SessionStatusWaiting {
			return ErrAlreadyStarted
		}
		if s.playerLimit > 0 && len(sess.Players) >= s.playerLimit {
			return ErrSessionFull
		}
		joined = models.Player{
			ID:       playerID,
			Nickname: nickname,
			Avatar:   avatar,
			JoinedAt: time.Now().UTC(),
		}
		sess.Players[playerID] = joined
		sess.Scores[playerID] = 0
		sess.Streaks[playerID] = 0
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &joined, NewSessionView(sess), nil
}

// SetQuiz installs the question list on a waiting session.
func (s *SessionService) SetQuiz(ctx context.Context, code string, questions []models.Question) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	if err := ValidateQuiz(questions); err != nil {
		return err
	}
	_, err = s.mutate(ctx, code, func(sess *models.Session) error {
		return applySetQuiz(sess, questions)
	})
	return err
}

// SetQuizFromURL fetches a quiz document and installs it. The fetch
// completes before the store transaction begins; no lock or transaction
// spans the external round-trip, and a failed fetch leaves the session
// untouched.
func (s *SessionService) SetQuizFromURL(ctx context.Context, code, url string) error {
	questions, err := s.fetcher.FetchQuiz(ctx, url)
	if err != nil {
		return err
	}
	return s.SetQuiz(ctx, code, questions)
}

// Start moves a waiting session with a non-empty quiz to its first question.
func (s *SessionService) Start(ctx context.Context, code string) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	_, err = s.mutate(ctx, code, applyStart)
	return err
}

// Advance moves to the next question, or ends the session when the quiz is
// exhausted. Advancing an ended session is a no-op.
func (s *SessionService) Advance(ctx context.Context, code string) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	_, err = s.mutate(ctx, code, applyAdvance)
	return err
}

// End terminates the session early.
func (s *SessionService) End(ctx context.Context, code string) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	_, err = s.mutate(ctx, code, applyEnd)
	return err
}

// SubmitAnswer records one player's answer to the current question and
// applies scoring. The duplicate check, the score increment and the answered
// marker are all part of the same store transaction, so two concurrent
// submissions by the same player count once and submissions by different
// players never lose an update.
func (s *SessionService) SubmitAnswer(ctx context.Context, code, playerID string, option int, elapsedMs int64) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}
	if option < 0 || option >= models.OptionCount {
		return ErrInvalidOption
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}

	_, err = s.mutate(ctx, code, func(sess *models.Session) error {
		if sess.Status != models.SessionStatusStarted {
			return ErrNotAccepting
		}
		if _, ok := sess.Players[playerID]; !ok {
			return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
		}
		if _, ok := sess.Answered[playerID]; ok {
			// Already answered this question; absorb the retry.
			return nil
		}

		question := sess.Quiz[sess.CurrentQuestion]
		correct := option == question.Correct
		points, streak := s.scoring.Score(correct, elapsedMs, sess.Streaks[playerID])

		sess.Scores[playerID] += points
		sess.Streaks[playerID] = streak
		sess.Answered[playerID] = option
		return nil
	})
	return err
}

// Get returns a read-only snapshot of the session.
func (s *SessionService) Get(ctx context.Context, code string) (*SessionView, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	sess, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return NewSessionView(sess), nil
}

// GetLeaderboard returns players ranked by score, highest first.
func (s *SessionService) GetLeaderboard(ctx context.Context, code string) ([]LeaderboardEntry, error) {
	view, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return view.Leaderboard, nil
}

// mutate runs one store transaction under the shared retry policy and
// publishes the resulting view on success.
func (s *SessionService) mutate(ctx context.Context, code string, fn store.UpdateFunc) (*models.Session, error) {
	var sess *models.Session
	var err error
	for attempt := 0; attempt < storeRetryAttempts; attempt++ {
		sess, err = s.store.TransactionalUpdate(ctx, code, fn)
		if !errors.Is(err, store.ErrContention) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * storeRetryBackoff):
		}
	}
	if errors.Is(err, store.ErrContention) {
		return nil, fmt.Errorf("%w: %s", ErrStoreContention, code)
	}
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if s.notify != nil {
		s.notify(code, NewSessionView(sess))
	}
	return sess, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: session", ErrNotFound)
	}
	return err
}

type SessionView struct {
	Code            string             `json:"code"`
	DisplayCode     string             `json:"display_code"`
	Status          string             `json:"status"`
	CurrentQuestion int                `json:"current_question"`
	TotalQuestions  int                `json:"total_questions"`
	Question        *QuestionView      `json:"question,omitempty"`
	Players         []models.Player    `json:"players"`
	AnswerCount     int                `json:"answer_count"`
	Leaderboard     []LeaderboardEntry `json:"leaderboard"`
	CreatedAt       time.Time          `json:"created_at"`
}

// QuestionView is the current question as shown to players. Correct is only
// populated once the session has ended.
type QuestionView struct {
	Text    string   `json:"question"`
	Img     string   `json:"img,omitempty"`
	Answers []string `json:"answers"`
	Correct *int     `json:"correct,omitempty"`
}

type LeaderboardEntry struct {
	Position int    `json:"position"`
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	Streak   int    `json:"streak"`
}

// NewSessionView builds the read-only snapshot published to clients.
func NewSessionView(s *models.Session) *SessionView {
	view := &SessionView{
		Code:            s.Code,
		DisplayCode:     FormatCode(s.Code),
		Status:          s.Status,
		CurrentQuestion: s.CurrentQuestion,
		TotalQuestions:  len(s.Quiz),
		AnswerCount:     len(s.Answered),
		CreatedAt:       s.CreatedAt,
	}

	if s.Status == models.SessionStatusStarted && s.CurrentQuestion < len(s.Quiz) {
		q := s.Quiz[s.CurrentQuestion]
		view.Question = &QuestionView{Text: q.Text, Img: q.Img, Answers: q.Answers}
	}
	if s.Status == models.SessionStatusEnded && len(s.Quiz) > 0 && s.CurrentQuestion < len(s.Quiz) {
		q := s.Quiz[s.CurrentQuestion]
		correct := q.Correct
		view.Question = &QuestionView{Text: q.Text, Img: q.Img, Answers: q.Answers, Correct: &correct}
	}

	view.Players = make([]models.Player, 0, len(s.Players))
	for _, p := range s.Players {
		view.Players = append(view.Players, p)
	}
	sort.Slice(view.Players, func(i, j int) bool {
		return view.Players[i].JoinedAt.Before(view.Players[j].JoinedAt)
	})

	view.Leaderboard = make([]LeaderboardEntry, 0, len(s.Players))
	for id, p := range s.Players {
		view.Leaderboard = append(view.Leaderboard, LeaderboardEntry{
			PlayerID: id,
			Nickname: p.Nickname,
			Score:    s.Scores[id],
			Streak:   s.Streaks[id],
		})
	}
	sort.Slice(view.Leaderboard, func(i, j int) bool {
		a, b := view.Leaderboard[i], view.Leaderboard[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Nickname < b.Nickname
	})
	for i := range view.Leaderboard {
		view.Leaderboard[i].Position = i + 1
	}

	return view
}
