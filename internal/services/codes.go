package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Fork0n/open-hoot/internal/models"
	"github.com/Fork0n/open-hoot/internal/store"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the canonical session code length: six symbols from a
// 36-symbol alphabet, stored uppercase with no separator.
const CodeLength = 6

// maxAllocateAttempts bounds the collision-retry loop in Allocate.
const maxAllocateAttempts = 8

// CodeAllocator hands out unique session codes by racing conditional creates
// against the store: of two callers that pick the same code, exactly one
// create wins and the loser retries with a fresh code.
type CodeAllocator struct {
	store store.SessionStore
}

func NewCodeAllocator(st store.SessionStore) *CodeAllocator {
	return &CodeAllocator{store: st}
}

// Allocate creates a fresh waiting session under a newly generated code and
// returns the code. Returns ErrAllocationExhausted after the attempt cap.
func (a *CodeAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		code := randomCode()
		err := a.store.CreateIfAbsent(ctx, code, models.NewSession(code, time.Now().UTC()))
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		return code, nil
	}
	return "", ErrAllocationExhausted
}

func randomCode() string {
	var b [CodeLength]byte
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b[:])
}

// NormalizeCode canonicalizes user input: separators and case are ignored,
// the result must be exactly six alphanumerics.
func NormalizeCode(input string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) != CodeLength {
		return "", ErrInvalidCode
	}
	return code, nil
}

// FormatCode renders a canonical code in its display form, XXX-XXX.
// NormalizeCode(FormatCode(c)) == c for every canonical c.
func FormatCode(code string) string {
	if len(code) != CodeLength {
		return code
	}
	return code[:3] + "-" + code[3:]
}
