package prompt

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/snowflake-ladder/snowflake/internal/router"
)

func typeText(p *PromptScreen, s string) {
	for _, r := range s {
		p.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestPrompt_SubmitPopsWithResult(t *testing.T) {
	p := New(Config{ID: "name", Title: "Your name"})
	typeText(p, "Ada")

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	pop, ok := cmd().(router.PopScreenMsg)
	if !ok {
		t.Fatalf("expected PopScreenMsg, got %T", cmd())
	}
	got, ok := pop.Result.(SubmittedMsg)
	if !ok {
		t.Fatalf("expected SubmittedMsg result, got %T", pop.Result)
	}
	if got.ID != "name" || got.Value != "Ada" {
		t.Errorf("got %+v", got)
	}
}

func TestPrompt_InitialValue(t *testing.T) {
	p := New(Config{ID: "name", Initial: "Grace"})
	typeText(p, "!")
	if p.input.Value() != "Grace!" {
		t.Errorf("value = %q, want %q", p.input.Value(), "Grace!")
	}
}

func TestPrompt_ParseErrorKeepsPromptOpen(t *testing.T) {
	p := New(Config{
		ID:    "code",
		Title: "Import",
		Parse: func(s string) (any, error) { return nil, errors.New("bad code") },
	})
	typeText(p, "xyz")

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command when parsing fails")
	}
	if p.Err() == nil {
		t.Fatal("expected parse error to be kept")
	}
	if !strings.Contains(p.View(80, 20), "bad code") {
		t.Error("view should show the parse error")
	}

	// Typing again clears the error.
	typeText(p, "z")
	if p.Err() != nil {
		t.Error("expected error to clear after editing")
	}
}

func TestPrompt_KeyHints(t *testing.T) {
	if n := len(New(Config{}).KeyHints()); n != 2 {
		t.Errorf("KeyHints length = %d, want 2", n)
	}
}
