package e2e

import (
	"database/sql"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/freshell/timecode/internal/testutil"
)

// Exit codes from cmd/timecode, repeated here because the e2e tests drive
// the built binary rather than importing package main.
const (
	exitOK               = 0
	exitInvalidInput     = 2
	exitConflict         = 3
	exitValidationFailed = 4
	exitNotInitialized   = 5
)

func TestCLIRecordingSession(t *testing.T) {
	binPath := testutil.BuildTimecodeBinary(t, testutil.RepoRoot(t))
	workDir := t.TempDir()
	timelinePath := filepath.Join(workDir, "take.jsonl")

	runOK(t, binPath, workDir, "start", "--timeline", timelinePath, "--label", "ep12-day1")
	runOK(t, binPath, workDir, "begin", "--timeline", timelinePath, "--event", "coding", "--id", "parser", "--desc", "Implement parser", "--meta", "file=parser.go")
	runOK(t, binPath, workDir, "point", "--timeline", timelinePath, "--event", "layout_drag", "--desc", "Moved editor pane")
	runOK(t, binPath, workDir, "note-on", "--timeline", timelinePath, "--desc", "Mention refactor plan")
	runOK(t, binPath, workDir, "note-off", "--timeline", timelinePath)
	runOK(t, binPath, workDir, "end", "--timeline", timelinePath, "--event", "coding", "--id", "parser", "--desc", "Parser done")

	statusOut := runOK(t, binPath, workDir, "status", "--timeline", timelinePath, "--json")
	var status struct {
		OK      bool `json:"ok"`
		Session struct {
			SessionID  string `json:"session_id"`
			Label      string `json:"label"`
			NextSeq    int64  `json:"next_seq"`
			OpenEvents int    `json:"open_events"`
		} `json:"session"`
	}
	if err := json.Unmarshal(statusOut, &status); err != nil {
		t.Fatalf("parse status json: %v\n%s", err, statusOut)
	}
	if !status.OK || status.Session.Label != "ep12-day1" || status.Session.OpenEvents != 0 {
		t.Fatalf("unexpected status: %s", statusOut)
	}
	if status.Session.NextSeq != 7 {
		t.Fatalf("next_seq: got %d want 7\n%s", status.Session.NextSeq, statusOut)
	}

	validateOut := runOK(t, binPath, workDir, "validate", "--timeline", timelinePath, "--json")
	var validated struct {
		OK     bool `json:"ok"`
		Result struct {
			SessionID      string `json:"session_id"`
			Events         int    `json:"events"`
			LastSeq        int64  `json:"last_seq"`
			TimelineDigest string `json:"timeline_digest"`
			Status         string `json:"status"`
		} `json:"result"`
	}
	if err := json.Unmarshal(validateOut, &validated); err != nil {
		t.Fatalf("parse validate json: %v\n%s", err, validateOut)
	}
	if !validated.OK || validated.Result.Status != "ok" || validated.Result.Events != 6 {
		t.Fatalf("unexpected validate result: %s", validateOut)
	}
	if len(validated.Result.TimelineDigest) != 64 {
		t.Fatalf("expected sha256 hex digest, got %q", validated.Result.TimelineDigest)
	}
	if validated.Result.SessionID != status.Session.SessionID {
		t.Fatalf("session id mismatch: %q vs %q", validated.Result.SessionID, status.Session.SessionID)
	}

	dbPath := filepath.Join(workDir, "take.db")
	runOK(t, binPath, workDir, "export", "--timeline", timelinePath, "--out", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open exported db: %v", err)
	}
	defer func() { _ = db.Close() }()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events WHERE session_id = ?`, validated.Result.SessionID).Scan(&count); err != nil {
		t.Fatalf("count exported events: %v", err)
	}
	if count != 6 {
		t.Fatalf("exported events: got %d want 6", count)
	}
}

func TestCLIErrorExitCodes(t *testing.T) {
	binPath := testutil.BuildTimecodeBinary(t, testutil.RepoRoot(t))
	workDir := t.TempDir()
	timelinePath := filepath.Join(workDir, "take.jsonl")

	runFail(t, binPath, workDir, exitNotInitialized, "point", "--timeline", timelinePath, "--event", "phase", "--desc", "too early")

	runOK(t, binPath, workDir, "start", "--timeline", timelinePath)
	runFail(t, binPath, workDir, exitConflict, "start", "--timeline", timelinePath)

	runOK(t, binPath, workDir, "begin", "--timeline", timelinePath, "--event", "coding", "--desc", "First pass")
	runFail(t, binPath, workDir, exitConflict, "begin", "--timeline", timelinePath, "--event", "coding", "--desc", "Duplicate")
	runFail(t, binPath, workDir, exitValidationFailed, "validate", "--timeline", timelinePath)
	runFail(t, binPath, workDir, exitInvalidInput, "point", "--timeline", timelinePath, "--event", "phase", "--desc", "bad", "--meta", "noequals")

	dupOut, dupErr := runCommand(binPath, workDir, "begin", "--timeline", timelinePath, "--event", "coding", "--desc", "dup", "--json")
	if dupErr == nil {
		t.Fatalf("expected duplicate begin to fail\n%s", dupOut)
	}
	if !strings.Contains(string(dupOut), "already_open") {
		t.Fatalf("expected already_open envelope for duplicate begin: %s", dupOut)
	}

	outFail, err := runCommand(binPath, workDir, "end", "--timeline", timelinePath, "--event", "missing", "--desc", "never opened", "--json")
	if err == nil {
		t.Fatalf("expected end of unopened event to fail\n%s", outFail)
	}
	var envelope struct {
		OK            bool   `json:"ok"`
		ErrorCode     string `json:"error_code"`
		ErrorCategory string `json:"error_category"`
	}
	if jsonErr := json.Unmarshal(outFail, &envelope); jsonErr != nil {
		t.Fatalf("parse error envelope: %v\n%s", jsonErr, outFail)
	}
	if envelope.OK || envelope.ErrorCode != "no_such_open_event" || envelope.ErrorCategory != "conflict" {
		t.Fatalf("unexpected error envelope: %s", outFail)
	}
}

func TestCLIConfigDefaults(t *testing.T) {
	binPath := testutil.BuildTimecodeBinary(t, testutil.RepoRoot(t))
	workDir := t.TempDir()
	timelinePath := filepath.Join(workDir, "take.jsonl")

	configPath := filepath.Join(workDir, "timecode.yaml")
	testutil.WriteFile(t, configPath, []byte("timeline: "+timelinePath+"\nlabel: from-config\n"))

	cmd := exec.Command(binPath, "start", "--json")
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "TIMECODE_CONFIG_PATH="+configPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("start with config defaults: %v\n%s", err, out)
	}
	var started struct {
		OK       bool   `json:"ok"`
		Timeline string `json:"timeline"`
	}
	if err := json.Unmarshal(out, &started); err != nil {
		t.Fatalf("parse start json: %v\n%s", err, out)
	}
	if !started.OK || started.Timeline != timelinePath {
		t.Fatalf("config default not applied: %s", out)
	}
}

func runOK(t *testing.T, binPath, workDir string, args ...string) []byte {
	t.Helper()
	out, err := runCommand(binPath, workDir, args...)
	if err != nil {
		t.Fatalf("timecode %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func runFail(t *testing.T, binPath, workDir string, wantExit int, args ...string) {
	t.Helper()
	out, err := runCommand(binPath, workDir, args...)
	if err == nil {
		t.Fatalf("timecode %s: expected failure\n%s", strings.Join(args, " "), out)
	}
	if code := testutil.CommandExitCode(t, err); code != wantExit {
		t.Fatalf("timecode %s: exit %d want %d\n%s", strings.Join(args, " "), code, wantExit, out)
	}
}

func runCommand(binPath, workDir string, args ...string) ([]byte, error) {
	cmd := exec.Command(binPath, args...)
	cmd.Dir = workDir
	return cmd.CombinedOutput()
}
