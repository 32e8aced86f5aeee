package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCauseAndClassification(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("timeline '%s' already exists", "demo/timecodes.jsonl")
	err := Wrap(cause, CategoryConflict, CodeAlreadyExists, "pass --reset to start a new session")

	if err.Error() != cause.Error() {
		t.Fatalf("message mismatch: %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
	if CategoryOf(err) != CategoryConflict {
		t.Fatalf("category mismatch: %q", CategoryOf(err))
	}
	if CodeOf(err) != CodeAlreadyExists {
		t.Fatalf("code mismatch: %q", CodeOf(err))
	}
	if HintOf(err) != "pass --reset to start a new session" {
		t.Fatalf("hint mismatch: %q", HintOf(err))
	}
	if RetryableOf(err) {
		t.Fatalf("conflict errors must not be retryable")
	}
}

func TestWrapNilCauseReturnsNil(t *testing.T) {
	t.Parallel()

	if err := Wrap(nil, CategoryIOFailure, "", ""); err != nil {
		t.Fatalf("expected nil for nil cause, got: %v", err)
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	t.Parallel()

	err := Newf(CategoryConflict, CodeAlreadyOpen, "end the open event first", "event already open for event=%q id=%q", "coding", "x")
	if err.Error() != `event already open for event="coding" id="x"` {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if CodeOf(err) != CodeAlreadyOpen {
		t.Fatalf("code mismatch: %q", CodeOf(err))
	}
}

func TestStateContentionIsRetryable(t *testing.T) {
	t.Parallel()

	err := Newf(CategoryStateContention, "", "", "append lock timeout")
	if !RetryableOf(err) {
		t.Fatalf("state contention must be retryable")
	}
}

func TestClassificationOfPlainError(t *testing.T) {
	t.Parallel()

	plain := stderrors.New("plain")
	if CategoryOf(plain) != "" || CodeOf(plain) != "" || HintOf(plain) != "" || RetryableOf(plain) {
		t.Fatalf("plain errors must carry no classification")
	}
}
