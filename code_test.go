package futurewindow

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var fiveDigits = regexp.MustCompile(`^\d{5}$`)

func TestGenerateCodeFormat(t *testing.T) {
	store := &recordingStore{}
	for i := 0; i < 200; i++ {
		code := GenerateCode(context.Background(), store)
		if !fiveDigits.MatchString(code) {
			t.Fatalf("code %q is not a 5-digit string", code)
		}
	}
}

func TestGenerateCodeRetriesOnCollision(t *testing.T) {
	// Every draw collides; the generator must fall back to a time-derived
	// code after bounded attempts rather than loop forever.
	all := &collidingStore{}

	code := GenerateCode(context.Background(), all)
	if !fiveDigits.MatchString(code) {
		t.Fatalf("fallback code %q is not a 5-digit string", code)
	}
	if all.calls != codeAttempts {
		t.Errorf("uniqueness checked %d times, want %d", all.calls, codeAttempts)
	}
}

func TestGenerateCodeDegradesOnStoreFailure(t *testing.T) {
	// The lookup always errors; generation proceeds unchecked.
	store := &recordingStore{hasCodeErr: errors.New("store unreachable")}

	code := GenerateCode(context.Background(), store)
	if !fiveDigits.MatchString(code) {
		t.Fatalf("code %q is not a 5-digit string", code)
	}
	if store.hasCalls != 1 {
		t.Errorf("expected a single degraded attempt, got %d", store.hasCalls)
	}
}

func TestGenerateCodeNilStore(t *testing.T) {
	if code := GenerateCode(context.Background(), nil); !fiveDigits.MatchString(code) {
		t.Fatalf("code %q is not a 5-digit string", code)
	}
}

// collidingStore reports every code as already issued.
type collidingStore struct {
	recordingStore
	calls int
}

func (c *collidingStore) HasIssuedCode(context.Context, string) (bool, error) {
	c.calls++
	return true, nil
}
