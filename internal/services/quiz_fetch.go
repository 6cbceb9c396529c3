package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Fork0n/open-hoot/internal/models"
)

// maxQuizBody caps how much of a quiz response is read; real quiz files are
// a few kilobytes.
const maxQuizBody = 1 << 20

// QuizFetcher retrieves quiz documents from an external content source. When
// baseURL is set, only URLs under that prefix are allowed.
type QuizFetcher struct {
	httpClient *http.Client
	baseURL    string
}

func NewQuizFetcher(baseURL string) *QuizFetcher {
	return &QuizFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

// FetchQuiz downloads and validates a quiz document: a JSON array of
// questions, each with four answers and a correct index in range. Any
// transport or schema failure comes back as a *FetchError.
func (f *QuizFetcher) FetchQuiz(ctx context.Context, url string) ([]models.Question, error) {
	if f.baseURL != "" && !strings.HasPrefix(url, f.baseURL) {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("url outside allowed base %s", f.baseURL)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxQuizBody))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	var questions []models.Question
	if err := json.Unmarshal(body, &questions); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if err := ValidateQuiz(questions); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return questions, nil
}

// ValidateQuiz checks the quiz document schema shared by the fetcher, the
// inline set-quiz endpoint and the authoring tool.
func ValidateQuiz(questions []models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidQuiz, i)
		}
		if len(q.Answers) != models.OptionCount {
			return fmt.Errorf("%w: question %d has %d answers, want %d", ErrInvalidQuiz, i, len(q.Answers), models.OptionCount)
		}
		if q.Correct < 0 || q.Correct >= models.OptionCount {
			return fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalidQuiz, i, q.Correct)
		}
	}
	return nil
}
