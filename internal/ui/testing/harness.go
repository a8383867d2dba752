// Package testing provides a step-based harness for Bubbletea models.
package testing

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
)

// TestHarness drives a model through Init and a sequence of messages, running
// the commands each Update returns the way the Bubbletea runtime would.
//
//	harness := NewTestHarness(t, model)
//	harness.
//		Step(TestStep[*MyView]{
//			Name:       "typed_volume",
//			Msg:        tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("10")},
//			ViewGolden: "typed_volume",
//		}).
//		Run(t)
type TestHarness[T tea.Model] struct {
	model  T
	steps  []TestStep[T]
	goldie *goldie.Goldie
	quit   bool
}

// TestStep is one message sent to Update followed by assertions.
type TestStep[T tea.Model] struct {
	// Name identifies the step in subtest names
	Name string

	// Msg is sent to Update. Nil only re-renders.
	Msg tea.Msg

	// ViewGolden compares View() with testdata/<ViewGolden>.golden (regenerate with -update)
	ViewGolden string

	// ViewAssert is a custom check of View()
	ViewAssert func(t *testing.T, view string)

	// ModelAssert checks model state after Update
	ModelAssert func(t *testing.T, m T)
}

// NewTestHarness creates a harness. Colours are forced to ASCII so views are stable across terminals.
func NewTestHarness[T tea.Model](t *testing.T, model T) *TestHarness[T] {
	t.Helper()

	lipgloss.SetColorProfile(termenv.Ascii)

	return &TestHarness[T]{
		model: model,
		goldie: goldie.New(t,
			goldie.WithFixtureDir("testdata"),
			goldie.WithNameSuffix(".golden"),
		),
	}
}

// Step appends a step. Steps run in order.
func (h *TestHarness[T]) Step(step TestStep[T]) *TestHarness[T] {
	h.steps = append(h.steps, step)
	return h
}

// Quit reports whether the model asked the program to exit.
func (h *TestHarness[T]) Quit() bool {
	return h.quit
}

// Model returns the model in its current state.
func (h *TestHarness[T]) Model() T {
	return h.model
}

// Run calls Init, then each step's Update and assertions.
func (h *TestHarness[T]) Run(t *testing.T) {
	t.Helper()

	h.processCommands(t, h.model.Init(), 0)

	for _, step := range h.steps {
		t.Run(step.Name, func(t *testing.T) {
			if step.Msg != nil {
				h.update(t, step.Msg)
			}

			view := normalizeView(h.model.View())
			if step.ViewGolden != "" {
				h.goldie.Assert(t, step.ViewGolden, []byte(view))
			}
			if step.ViewAssert != nil {
				step.ViewAssert(t, view)
			}
			if step.ModelAssert != nil {
				step.ModelAssert(t, h.model)
			}
		})
	}
}

func (h *TestHarness[T]) update(t *testing.T, msg tea.Msg) {
	t.Helper()

	updated, cmd := h.model.Update(msg)
	m, ok := updated.(T)
	if !ok {
		t.Fatalf("model %T is not %T", updated, h.model)
	}
	h.model = m
	h.processCommands(t, cmd, 0)
}

const maxCommandDepth = 10

// processCommands runs cmd and feeds its message back into Update, recursively.
// tea.Quit is recorded instead of being delivered.
func (h *TestHarness[T]) processCommands(t *testing.T, cmd tea.Cmd, depth int) {
	t.Helper()

	if cmd == nil {
		return
	}
	if depth >= maxCommandDepth {
		t.Log("max command depth exceeded")
		return
	}

	switch msg := cmd().(type) {
	case nil:
		return
	case tea.QuitMsg:
		h.quit = true
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCommands(t, c, depth+1)
		}
	case tea.KeyMsg, tea.WindowSizeMsg:
		// Only the test sends user input
	default:
		updated, next := h.model.Update(msg)
		h.model = updated.(T) //nolint:errcheck // Type assertion guaranteed by test harness generic type
		h.processCommands(t, next, depth+1)
	}
}

// normalizeView trims surrounding whitespace and normalizes line endings
func normalizeView(view string) string {
	view = strings.TrimSpace(view)
	return strings.ReplaceAll(view, "\r\n", "\n")
}

// AssertContains fails when view does not contain substring
func AssertContains(t *testing.T, view, substring string) {
	t.Helper()
	if !strings.Contains(view, substring) {
		t.Errorf("View does not contain expected substring.\nExpected substring: %q\nActual view:\n%s", substring, view)
	}
}

// AssertNotContains fails when view contains substring
func AssertNotContains(t *testing.T, view, substring string) {
	t.Helper()
	if strings.Contains(view, substring) {
		t.Errorf("View contains unexpected substring.\nUnexpected substring: %q\nActual view:\n%s", substring, view)
	}
}
