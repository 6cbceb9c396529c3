package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fork0n/open-hoot/internal/models"
	"github.com/Fork0n/open-hoot/internal/services"
)

// quizgen is the offline quiz-authoring tool. It has no session logic: it
// prompts for questions and writes a JSON file in the schema the server's
// quiz fetcher consumes.

var outputDir string

var errInputClosed = errors.New("input ended before the quiz was finished")

func main() {
	cmd := &cobra.Command{
		Use:   "quizgen",
		Short: "Interactively author a quiz file for open-hoot",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "quizzes", "directory to write quiz files to")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	prompt := func(label string) (string, error) {
		fmt.Fprint(out, label)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", errInputClosed
		}
		return strings.TrimSpace(sc.Text()), nil
	}

	fileName, err := prompt("Enter quiz/file name: ")
	if err != nil {
		return err
	}
	if fileName == "" {
		return fmt.Errorf("quiz name is required")
	}
	fmt.Fprintln(out, "\n--- Creating Quiz ---")

	var quiz []models.Question
	for num := 1; ; num++ {
		fmt.Fprintf(out, "\n=== Question %d ===\n", num)

		var q models.Question
		if q.Text, err = prompt("Enter question: "); err != nil {
			return err
		}
		if q.Img, err = prompt("Enter image link (or press Enter to skip): "); err != nil {
			return err
		}
		for i := 1; i <= models.OptionCount; i++ {
			answer, err := prompt(fmt.Sprintf("Enter answer %d: ", i))
			if err != nil {
				return err
			}
			q.Answers = append(q.Answers, answer)
		}

		q.Correct = -1
		for q.Correct < 0 {
			line, err := prompt("Select correct answer (0-3): ")
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(line)
			if err != nil || n < 0 || n >= models.OptionCount {
				fmt.Fprintln(out, "Invalid input. Please enter a number between 0 and 3.")
				continue
			}
			q.Correct = n
		}

		quiz = append(quiz, q)
		fmt.Fprintln(out, "\nQuestion added.")

		more, err := prompt("\nAdd another question? (y/n): ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(more, "y") {
			break
		}
	}

	if err := services.ValidateQuiz(quiz); err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(outputDir, sanitizeFileName(fileName)+".json")

	data, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nQuiz saved to: %s\n", path)
	fmt.Fprintf(out, "Total questions: %d\n", len(quiz))
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9_-]+`)

func sanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(strings.ToLower(name), "_")
}
