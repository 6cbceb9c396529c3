package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Fork0n/open-hoot/internal/models"
	"github.com/Fork0n/open-hoot/internal/store"
)

func TestRandomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := randomCode()
		if len(code) != CodeLength {
			t.Fatalf("randomCode() = %q, want length %d", code, CodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("randomCode() = %q contains %q outside alphabet", code, r)
			}
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"canonical passes through", "ABC123", "ABC123", false},
		{"display form", "ABC-123", "ABC123", false},
		{"lowercase input", "abc123", "ABC123", false},
		{"mixed case with separator", "aBc-12z", "ABC12Z", false},
		{"surrounding whitespace", " ABC123 ", "ABC123", false},
		{"too short", "ABC12", "", true},
		{"too long", "ABC1234", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCode) {
					t.Fatalf("NormalizeCode(%q) err = %v, want ErrInvalidCode", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeCode(%q) err = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatCodeRoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := randomCode()
		display := FormatCode(code)
		if !strings.Contains(display, "-") {
			t.Fatalf("FormatCode(%q) = %q, want separator", code, display)
		}
		back, err := NormalizeCode(display)
		if err != nil {
			t.Fatalf("NormalizeCode(%q) err = %v", display, err)
		}
		if back != code {
			t.Errorf("round trip %q -> %q -> %q", code, display, back)
		}
	}
}

func TestAllocateConcurrentDistinct(t *testing.T) {
	st := store.NewMemoryStore()
	alloc := NewCodeAllocator(st)

	const callers = 64
	codes := make([]string, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := alloc.Allocate(context.Background())
			if err != nil {
				t.Errorf("Allocate() err = %v", err)
				return
			}
			codes[i] = code
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, callers)
	for _, code := range codes {
		if seen[code] {
			t.Fatalf("duplicate code allocated: %s", code)
		}
		seen[code] = true
		if _, err := st.Get(context.Background(), code); err != nil {
			t.Fatalf("allocated code %s not in store: %v", code, err)
		}
	}
}

// exhaustedStore refuses every create, as if all codes were taken.
type exhaustedStore struct {
	store.SessionStore
}

func (exhaustedStore) CreateIfAbsent(ctx context.Context, code string, value *models.Session) error {
	return store.ErrAlreadyExists
}

func TestAllocateExhausted(t *testing.T) {
	alloc := NewCodeAllocator(exhaustedStore{})

	_, err := alloc.Allocate(context.Background())
	if !errors.Is(err, ErrAllocationExhausted) {
		t.Fatalf("Allocate() err = %v, want ErrAllocationExhausted", err)
	}
}
