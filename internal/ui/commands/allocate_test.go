package commands

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwtatc/filesize/internal/alloc"
	"github.com/wwtatc/filesize/internal/batch"
	"github.com/wwtatc/filesize/internal/ui"
	uitesting "github.com/wwtatc/filesize/internal/ui/testing"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func simpleConf(in string, out *bytes.Buffer) AllocateConfig {
	return AllocateConfig{
		DisplayConfig: ui.DisplayConfig{IsInteractive: false},
		Format:        batch.FormatText,
		In:            strings.NewReader(in),
		Prompts:       out,
		Out:           out,
	}
}

func TestAllocateView_SimpleMode(t *testing.T) {
	t.Run("prompts then prints every block", func(t *testing.T) {
		var out bytes.Buffer
		model := NewAllocateView(simpleConf("10\n3, -1, 5\n", &out))

		harness := uitesting.NewTestHarness(t, model)
		harness.
			Step(uitesting.TestStep[*AllocateView]{
				Name: "finished",
				ViewAssert: func(t *testing.T, view string) {
					assert.Empty(t, view)
				},
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StateDone, m.state)
					assert.NoError(t, m.Error())
					require.NotNil(t, m.Report())
					assert.Len(t, m.Report().Allocations(), 2)
				},
			}).
			Run(t)

		assert.True(t, harness.Quit())

		expected := VolumePrompt + FileCountsPrompt +
			"\nFor 3 file(s):\n  3.336 GiB per file\n  3416 MiB per file\n  3497984 KiB per file\n" +
			"Invalid number of files: -1. Must be greater than 0.\n" +
			"\nFor 5 file(s):\n  2.000 GiB per file\n  2048 MiB per file\n  2097152 KiB per file\n"
		assert.Equal(t, expected, out.String())
	})

	t.Run("bad volume aborts before asking for files", func(t *testing.T) {
		var out bytes.Buffer
		model := NewAllocateView(simpleConf("abc\n3\n", &out))

		harness := uitesting.NewTestHarness(t, model)
		harness.
			Step(uitesting.TestStep[*AllocateView]{
				Name: "aborted",
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StateError, m.state)
					require.Error(t, m.Error())
					assert.ErrorIs(t, m.Error(), batch.ErrInvalidInput)
					assert.True(t, m.err.SilentExit)
					assert.Nil(t, m.Report())
				},
			}).
			Run(t)

		assert.Equal(t, VolumePrompt+"Invalid input. Please enter numeric values.\n", out.String())
	})

	t.Run("bad file count aborts the whole batch", func(t *testing.T) {
		var out bytes.Buffer
		model := NewAllocateView(simpleConf("10\n3, x, 5\n", &out))

		harness := uitesting.NewTestHarness(t, model)
		harness.
			Step(uitesting.TestStep[*AllocateView]{
				Name: "aborted",
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.ErrorIs(t, m.Error(), batch.ErrInvalidInput)
				},
			}).
			Run(t)

		assert.Equal(t, VolumePrompt+FileCountsPrompt+"Invalid input. Please enter numeric values.\n", out.String())
		assert.NotContains(t, out.String(), "For 3 file(s)")
	})

	t.Run("closed stdin is invalid input", func(t *testing.T) {
		var out bytes.Buffer
		model := NewAllocateView(simpleConf("", &out))

		harness := uitesting.NewTestHarness(t, model)
		harness.
			Step(uitesting.TestStep[*AllocateView]{
				Name: "aborted",
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.ErrorIs(t, m.Error(), batch.ErrInvalidInput)
				},
			}).
			Run(t)

		assert.Contains(t, out.String(), batch.InvalidInputMessage)
	})

	t.Run("last line without newline", func(t *testing.T) {
		var out bytes.Buffer
		model := NewAllocateView(simpleConf("0.001\n2", &out))

		uitesting.NewTestHarness(t, model).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "finished",
				ModelAssert: func(t *testing.T, m *AllocateView) {
					require.NotNil(t, m.Report())
					assert.Equal(t, int64(1), m.Report().Entries[0].Allocation.MiB)
				},
			}).
			Run(t)

		assert.Contains(t, out.String(), "  1 MiB per file\n")
	})

	t.Run("preset values skip the prompts", func(t *testing.T) {
		var out bytes.Buffer
		conf := simpleConf("", &out)
		conf.Volume = "10"
		conf.FileCounts = "3"
		model := NewAllocateView(conf)

		uitesting.NewTestHarness(t, model).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "finished",
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StateDone, m.state)
				},
			}).
			Run(t)

		assert.Equal(t, "\nFor 3 file(s):\n  3.336 GiB per file\n  3416 MiB per file\n  3497984 KiB per file\n", out.String())
	})

	t.Run("preset volume only asks for files", func(t *testing.T) {
		var out bytes.Buffer
		conf := simpleConf("4\n", &out)
		conf.Volume = "1"
		model := NewAllocateView(conf)

		uitesting.NewTestHarness(t, model).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "finished",
				ModelAssert: func(t *testing.T, m *AllocateView) {
					require.NotNil(t, m.Report())
					assert.Equal(t, int64(256), m.Report().Entries[0].Allocation.MiB)
				},
			}).
			Run(t)

		assert.True(t, strings.HasPrefix(out.String(), FileCountsPrompt))
		assert.NotContains(t, out.String(), VolumePrompt)
	})

	t.Run("bad preset volume aborts before asking for files", func(t *testing.T) {
		var out bytes.Buffer
		conf := simpleConf("3\n", &out)
		conf.Volume = "abc"
		model := NewAllocateView(conf)

		uitesting.NewTestHarness(t, model).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "aborted",
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StateError, m.state)
					assert.ErrorIs(t, m.Error(), batch.ErrInvalidInput)
					assert.Nil(t, m.Report())
				},
			}).
			Run(t)

		assert.Equal(t, batch.InvalidInputMessage+"\n", out.String())
	})

	t.Run("structured formats leave output to the caller", func(t *testing.T) {
		var prompts, out bytes.Buffer
		conf := simpleConf("10\n3\n", &out)
		conf.Prompts = &prompts
		conf.Format = batch.FormatJSON
		model := NewAllocateView(conf)

		uitesting.NewTestHarness(t, model).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "finished",
				ModelAssert: func(t *testing.T, m *AllocateView) {
					require.NotNil(t, m.Report())
				},
			}).
			Run(t)

		assert.Empty(t, out.String())
		assert.Equal(t, VolumePrompt+FileCountsPrompt, prompts.String())
	})
}

func TestAllocateView_Interactive(t *testing.T) {
	interactive := func() AllocateConfig {
		return AllocateConfig{
			DisplayConfig: ui.DisplayConfig{IsInteractive: true},
			Format:        batch.FormatText,
		}
	}

	t.Run("full flow", func(t *testing.T) {
		model := NewAllocateView(interactive())

		harness := uitesting.NewTestHarness(t, model)
		harness.
			Step(uitesting.TestStep[*AllocateView]{
				Name: "volume_prompt",
				ViewAssert: func(t *testing.T, view string) {
					uitesting.AssertContains(t, view, VolumePrompt)
					uitesting.AssertContains(t, view, "esc to quit")
				},
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StatePromptVolume, m.state)
				},
			}).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "typed_volume",
				Msg:  runes("10"),
				ViewAssert: func(t *testing.T, view string) {
					uitesting.AssertContains(t, view, VolumePrompt+"10")
				},
			}).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "submitted_volume",
				Msg:  tea.KeyMsg{Type: tea.KeyEnter},
				ViewAssert: func(t *testing.T, view string) {
					uitesting.AssertContains(t, view, VolumePrompt+"10")
					uitesting.AssertContains(t, view, FileCountsPrompt)
				},
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StatePromptFileCounts, m.state)
					assert.Equal(t, "10", m.volume)
					assert.Empty(t, m.input.Value())
				},
			}).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "typed_counts",
				Msg:  runes("3, -1, 5"),
			}).
			Step(uitesting.TestStep[*AllocateView]{
				Name:       "results",
				Msg:        tea.KeyMsg{Type: tea.KeyEnter},
				ViewGolden: "allocate_results",
				ViewAssert: func(t *testing.T, view string) {
					uitesting.AssertContains(t, view, "10 GiB")
					uitesting.AssertContains(t, view, "3 files")
					uitesting.AssertContains(t, view, "3.336")
					uitesting.AssertContains(t, view, "3,416")
					uitesting.AssertContains(t, view, "3,497,984")
					uitesting.AssertContains(t, view, "Invalid number of files: -1. Must be greater than 0.")
					uitesting.AssertContains(t, view, "5 files")
					uitesting.AssertContains(t, view, "2,097,152")
					uitesting.AssertNotContains(t, view, FileCountsPrompt)
				},
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StateDone, m.state)
					assert.NoError(t, m.Error())
				},
			}).
			Run(t)

		assert.True(t, harness.Quit())
	})

	t.Run("invalid volume shows the error", func(t *testing.T) {
		model := NewAllocateView(interactive())

		harness := uitesting.NewTestHarness(t, model)
		harness.
			Step(uitesting.TestStep[*AllocateView]{Name: "typed", Msg: runes("abc")}).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "submitted",
				Msg:  tea.KeyMsg{Type: tea.KeyEnter},
				ViewAssert: func(t *testing.T, view string) {
					assert.Equal(t, "✗ "+batch.InvalidInputMessage, view)
				},
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StateError, m.state)
					assert.ErrorIs(t, m.Error(), batch.ErrInvalidInput)
				},
			}).
			Run(t)

		assert.True(t, harness.Quit())
	})

	t.Run("invalid preset volume shows the error without prompting", func(t *testing.T) {
		conf := interactive()
		conf.Volume = "-1"
		model := NewAllocateView(conf)

		harness := uitesting.NewTestHarness(t, model)
		harness.
			Step(uitesting.TestStep[*AllocateView]{
				Name: "aborted",
				ViewAssert: func(t *testing.T, view string) {
					assert.Equal(t, "✗ "+batch.InvalidInputMessage, view)
				},
			}).
			Run(t)

		assert.True(t, harness.Quit())
	})

	t.Run("esc cancels silently", func(t *testing.T) {
		model := NewAllocateView(interactive())

		harness := uitesting.NewTestHarness(t, model)
		harness.
			Step(uitesting.TestStep[*AllocateView]{
				Name: "cancelled",
				Msg:  tea.KeyMsg{Type: tea.KeyEsc},
				ViewAssert: func(t *testing.T, view string) {
					assert.Empty(t, view)
				},
				ModelAssert: func(t *testing.T, m *AllocateView) {
					var uiErr *ui.UIError
					require.ErrorAs(t, m.Error(), &uiErr)
					assert.Equal(t, ui.ErrorTypeUserCancelled, uiErr.Type)
					assert.True(t, uiErr.SilentExit)
				},
			}).
			Run(t)

		assert.True(t, harness.Quit())
	})

	t.Run("signal cancels", func(t *testing.T) {
		model := NewAllocateView(interactive())

		uitesting.NewTestHarness(t, model).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "cancelled",
				Msg:  ui.SignalCancelMsg{},
				ModelAssert: func(t *testing.T, m *AllocateView) {
					assert.Equal(t, StateError, m.state)
					assert.Error(t, m.Error())
				},
			}).
			Run(t)
	})

	t.Run("volume measured from files", func(t *testing.T) {
		measured := alloc.VolumeFromBytes(3 << 29)
		conf := interactive()
		conf.Measured = &measured
		conf.VolumeLabel = "data/**"
		model := NewAllocateView(conf)

		uitesting.NewTestHarness(t, model).
			Step(uitesting.TestStep[*AllocateView]{
				Name: "files_prompt",
				ViewAssert: func(t *testing.T, view string) {
					uitesting.AssertContains(t, view, "Volume from data/**: 1.5 GiB")
					uitesting.AssertContains(t, view, FileCountsPrompt)
					uitesting.AssertNotContains(t, view, VolumePrompt)
				},
			}).
			Run(t)
	})
}
