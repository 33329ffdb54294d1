package ui

import (
	"errors"
	"strings"
	"testing"
)

func TestRecordingUICapturesMessages(t *testing.T) {
	r := NewRecordingUI()
	r.Info("probing %d slots", 10)
	r.Warn("fraud service unavailable")
	r.Success("done")

	entries := r.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Method != "Info" || entries[0].Value != "probing 10 slots" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if !r.HasMessage("FRAUD SERVICE") {
		t.Errorf("HasMessage should match case-insensitively")
	}
	if r.HasMessage("nothing like this") {
		t.Errorf("HasMessage matched a message that was never recorded")
	}
}

func TestRecordingUIScriptedInputs(t *testing.T) {
	r := NewRecordingUI("hello", "y", "2")

	got := r.Ask(func(s string) error {
		if s == "" {
			return errors.New("empty")
		}
		return nil
	})
	if got != "hello" {
		t.Errorf("Ask returned %q, want %q", got, "hello")
	}
	if !r.Confirm("proceed?", false) {
		t.Errorf("Confirm should accept scripted 'y'")
	}
	if idx := r.Choose("pick", []string{"first", "second"}); idx != 1 {
		t.Errorf("Choose returned %d, want 1", idx)
	}
}

func TestRecordingUIConfirmDefault(t *testing.T) {
	r := NewRecordingUI("")
	if !r.Confirm("keep going?", true) {
		t.Errorf("empty input should fall back to the default")
	}
}

func TestRecordingUIIndentSharesLog(t *testing.T) {
	r := NewRecordingUI()
	r.Info("outer")
	r.Indent().Info("inner")

	if len(r.Entries()) != 2 {
		t.Fatalf("indented UI should record into the parent log, got %d entries", len(r.Entries()))
	}
}

func TestRecordingUIPanicsWhenScriptRunsOut(t *testing.T) {
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatalf("expected panic when scripted inputs run out")
		}
		if !strings.Contains(rec.(string), "no scripted input") {
			t.Errorf("unexpected panic message: %v", rec)
		}
	}()
	NewRecordingUI().Ask(nil)
}
