package timeline

import (
	"os"
	"path/filepath"
	"testing"

	coreerrors "github.com/freshell/timecode/core/errors"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
)

func TestStartCreatesSessionAndEmitsSessionStart(t *testing.T) {
	timelinePath := filepath.Join(t.TempDir(), "demo", "timecodes.jsonl")

	record, err := Start(timelinePath, StartOptions{Label: "synth-demo"})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if record.Seq != 1 {
		t.Fatalf("session_start seq: got %d want 1", record.Seq)
	}
	if record.TMS != 0 {
		t.Fatalf("session_start t_ms: got %d want 0", record.TMS)
	}
	if record.Kind != schematimeline.KindPoint || record.Event != schematimeline.EventSessionStart {
		t.Fatalf("unexpected bootstrap record: kind=%s event=%s", record.Kind, record.Event)
	}
	if record.Desc != defaultStartDesc {
		t.Fatalf("unexpected default desc: %q", record.Desc)
	}
	label, ok := record.Meta["label"]
	if !ok || label.Kind != schematimeline.MetaString || label.Str != "synth-demo" {
		t.Fatalf("label meta missing or mistyped: %+v", record.Meta)
	}

	state, err := LoadState(timelinePath)
	if err != nil {
		t.Fatalf("load state after start: %v", err)
	}
	if state.NextSeq != 2 {
		t.Fatalf("next_seq after bootstrap: got %d want 2", state.NextSeq)
	}
	if state.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
	if len(state.OpenEvents) != 0 {
		t.Fatalf("expected empty open-event registry")
	}
	if state.LastNoteEndTMS != nil {
		t.Fatalf("expected nil last_note_end_t_ms")
	}
}

func TestStartHonorsExplicitSessionID(t *testing.T) {
	timelinePath := filepath.Join(t.TempDir(), "timecodes.jsonl")

	record, err := Start(timelinePath, StartOptions{SessionID: "session-42"})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if record.SessionID != "session-42" {
		t.Fatalf("session id not honored: %q", record.SessionID)
	}
}

func TestStartFailsWhenSessionExists(t *testing.T) {
	timelinePath := filepath.Join(t.TempDir(), "timecodes.jsonl")

	if _, err := Start(timelinePath, StartOptions{}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	_, err := Start(timelinePath, StartOptions{})
	if err == nil {
		t.Fatalf("expected second start to fail")
	}
	if coreerrors.CodeOf(err) != coreerrors.CodeAlreadyExists {
		t.Fatalf("error code: got %q want %q", coreerrors.CodeOf(err), coreerrors.CodeAlreadyExists)
	}

	// The failed start must not have touched the timeline.
	records, readErr := ReadRecords(timelinePath)
	if readErr != nil {
		t.Fatalf("read timeline: %v", readErr)
	}
	if len(records) != 1 {
		t.Fatalf("record count after rejected start: got %d want 1", len(records))
	}
}

func TestStartResetReplacesSession(t *testing.T) {
	timelinePath := filepath.Join(t.TempDir(), "timecodes.jsonl")

	first, err := Start(timelinePath, StartOptions{})
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := Point(timelinePath, "phase", "", "checkpoint", nil); err != nil {
		t.Fatalf("point before reset: %v", err)
	}

	second, err := Start(timelinePath, StartOptions{Reset: true})
	if err != nil {
		t.Fatalf("reset start: %v", err)
	}
	if second.SessionID == first.SessionID {
		t.Fatalf("reset must mint a fresh session id")
	}
	if second.Seq != 1 {
		t.Fatalf("reset session must restart seq at 1, got %d", second.Seq)
	}
	records, err := ReadRecords(timelinePath)
	if err != nil {
		t.Fatalf("read timeline after reset: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("old records must be discarded on reset, found %d", len(records))
	}
}

func TestLoadStateNotInitialized(t *testing.T) {
	timelinePath := filepath.Join(t.TempDir(), "missing.jsonl")

	_, err := LoadState(timelinePath)
	if err == nil {
		t.Fatalf("expected not-initialized error")
	}
	if coreerrors.CodeOf(err) != coreerrors.CodeNotInitialized {
		t.Fatalf("error code: got %q want %q", coreerrors.CodeOf(err), coreerrors.CodeNotInitialized)
	}
	if coreerrors.CategoryOf(err) != coreerrors.CategoryNotInitialized {
		t.Fatalf("category: got %q", coreerrors.CategoryOf(err))
	}
}

func TestOperationsFailBeforeStart(t *testing.T) {
	timelinePath := filepath.Join(t.TempDir(), "timecodes.jsonl")

	if _, err := Point(timelinePath, "phase", "", "too early", nil); coreerrors.CodeOf(err) != coreerrors.CodeNotInitialized {
		t.Fatalf("point before start: unexpected error %v", err)
	}
	if _, err := Begin(timelinePath, "coding", "", "too early", nil); coreerrors.CodeOf(err) != coreerrors.CodeNotInitialized {
		t.Fatalf("begin before start: unexpected error %v", err)
	}
	if _, err := End(timelinePath, "coding", "", "too early", nil); coreerrors.CodeOf(err) != coreerrors.CodeNotInitialized {
		t.Fatalf("end before start: unexpected error %v", err)
	}
	if _, err := os.Stat(timelinePath); !os.IsNotExist(err) {
		t.Fatalf("rejected operations must not create the timeline")
	}
}

func TestStatePathDerivation(t *testing.T) {
	t.Parallel()

	if got := StatePath("demo/timecodes.jsonl"); got != "demo/timecodes.jsonl.state.json" {
		t.Fatalf("state path: %q", got)
	}
}
