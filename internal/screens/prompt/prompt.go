// Package prompt is a single-line input dialog.
package prompt

import (
	tea "charm.land/bubbletea/v2"

	"github.com/snowflake-ladder/snowflake/internal/router"
	"github.com/snowflake-ladder/snowflake/internal/screen"
	"github.com/snowflake-ladder/snowflake/internal/ui/components"
	"github.com/snowflake-ladder/snowflake/internal/ui/layout"
	"github.com/snowflake-ladder/snowflake/internal/ui/theme"
)

// SubmittedMsg is delivered to the screen below once the input is accepted.
type SubmittedMsg struct {
	ID    string
	Value any
}

// ParseFunc turns the raw input into the submitted value.
type ParseFunc func(string) (any, error)

// Config describes one prompt.
type Config struct {
	ID          string
	Title       string
	Help        string
	Placeholder string
	Initial     string
	MaxLen      int
	// Parse defaults to passing the text through.
	Parse ParseFunc
}

// PromptScreen asks for one line of text.
type PromptScreen struct {
	cfg   Config
	input components.TextInput
	err   error
}

var _ screen.Screen = (*PromptScreen)(nil)

// New creates a prompt.
func New(cfg Config) *PromptScreen {
	if cfg.Parse == nil {
		cfg.Parse = func(s string) (any, error) { return s, nil }
	}
	return &PromptScreen{
		cfg:   cfg,
		input: components.NewTextInput(cfg.Placeholder, cfg.Initial, cfg.MaxLen),
	}
}

func (p *PromptScreen) Title() string { return p.cfg.Title }

func (p *PromptScreen) Init() tea.Cmd { return p.input.Init() }

func (p *PromptScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return p, p.submit()
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.err = nil
	return p, cmd
}

func (p *PromptScreen) submit() tea.Cmd {
	value, err := p.cfg.Parse(p.input.Value())
	if err != nil {
		p.err = err
		p.input.Submit(false)
		return nil
	}
	p.input.Submit(true)
	result := SubmittedMsg{ID: p.cfg.ID, Value: value}
	return func() tea.Msg { return router.PopScreenMsg{Result: result} }
}

// Err returns the last parse error.
func (p *PromptScreen) Err() error { return p.err }

func (p *PromptScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	body := theme.Title.Render(p.cfg.Title) + "\n\n"
	if p.cfg.Help != "" {
		body += theme.Subtitle.Render(p.cfg.Help) + "\n\n"
	}
	body += p.input.View()
	if p.err != nil {
		body += "\n\n" + theme.Bad.Render(p.err.Error())
	}
	return components.Centered(components.Card(body, cw), width, height)
}

func (p *PromptScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Cancel"},
	}
}
