package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wwtatc/filesize/internal/alloc"
	"github.com/wwtatc/filesize/internal/batch"
	"github.com/wwtatc/filesize/internal/ui"
)

const (
	VolumePrompt     = "Enter the total data volume (GiB): "
	FileCountsPrompt = "Enter the number(s) of files (comma separated if multiple): "
)

// AllocateState is the step of the prompt flow
type AllocateState int

const (
	StatePromptVolume AllocateState = iota
	StatePromptFileCounts
	StateDone
	StateError
)

// AllocateConfig configures the prompt flow
type AllocateConfig struct {
	ui.DisplayConfig

	// Volume and FileCounts skip their prompt when non-empty
	Volume     string
	FileCounts string

	// Measured is a volume computed from files on disk. It takes precedence
	// over Volume and is shown with VolumeLabel, e.g. the --from pattern.
	Measured    *alloc.Volume
	VolumeLabel string

	// Format is the output format. Only text is rendered by the view; the
	// command encodes the other formats from Report() after the program exits.
	Format batch.Format

	// In and Prompts are used in simple output mode: lines are read from In
	// and prompts written to Prompts. Results in text format go to Out.
	In      io.Reader
	Prompts io.Writer
	Out     io.Writer
}

// AllocateView asks for a volume and a list of file counts, then shows the per-file sizes
type AllocateView struct {
	state  AllocateState
	input  textinput.Model
	reader *bufio.Reader

	volume       string
	presetVolume bool
	fileCounts   string
	report       *batch.Report
	err          *ui.UIError

	conf AllocateConfig
}

// NewAllocateView creates the prompt flow model
func NewAllocateView(conf AllocateConfig) *AllocateView {
	input := textinput.New()
	input.PromptStyle = ui.PromptStyle
	input.CharLimit = 256
	input.Cursor.SetMode(cursor.CursorStatic) //nolint:errcheck // Static cursor returns no command
	input.Focus()                             //nolint:errcheck // Static cursor returns no command

	m := &AllocateView{
		input:      input,
		volume:     strings.TrimSpace(conf.Volume),
		fileCounts: strings.TrimSpace(conf.FileCounts),
		conf:       conf,
	}
	if conf.Measured != nil {
		m.volume = conf.Measured.String()
	}
	m.presetVolume = m.volume != ""
	if conf.In != nil {
		m.reader = bufio.NewReader(conf.In)
	}

	m.state = m.nextPrompt()
	if m.state == StatePromptVolume {
		m.input.Prompt = VolumePrompt
	} else {
		m.input.Prompt = FileCountsPrompt
	}

	return m
}

// Init prints the first prompt in simple mode, or finishes right away when nothing needs asking
func (m *AllocateView) Init() tea.Cmd {
	// A bad volume flag aborts before the file counts are asked for
	if m.presetVolume && m.conf.Measured == nil {
		if _, err := alloc.ParseVolume(m.volume); err != nil {
			return m.failInput(fmt.Errorf("%w: %w", batch.ErrInvalidInput, err))
		}
	}
	if m.state == StateDone {
		return m.finish()
	}
	if m.conf.SimpleOutput() {
		return m.promptLine()
	}
	return nil
}

// Update handles messages
func (m *AllocateView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.SignalCancelMsg:
		m.err = ui.NewUserCancelledError()
		m.state = StateError
		return m, tea.Quit

	case lineReadMsg:
		return m.onAnswer(msg.text)

	case *ui.UIError:
		msg.SilentExit = true // Printed below or shown in View()
		m.err = msg
		m.state = StateError
		if m.conf.SimpleOutput() {
			fmt.Fprintf(m.conf.Prompts, "Error: %s\n", msg.Error()) //nolint:errcheck // Console output
		}
		return m, tea.Quit

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

// View renders the interactive UI. Simple mode prints directly and renders nothing.
func (m *AllocateView) View() string {
	if m.conf.SimpleOutput() {
		return ""
	}

	var out strings.Builder
	if m.conf.Measured != nil {
		out.WriteString(ui.PendingStyle.Render(fmt.Sprintf("Volume from %s: %s GiB", m.conf.VolumeLabel, m.volume)) + "\n")
	}

	switch m.state {
	case StatePromptVolume:
		out.WriteString(m.input.View() + "\n")
		out.WriteString(ui.HelpStyle.Render("enter to submit • esc to quit") + "\n")

	case StatePromptFileCounts:
		if !m.presetVolume {
			out.WriteString(ui.PromptStyle.Render(VolumePrompt) + m.volume + "\n")
		}
		out.WriteString(m.input.View() + "\n")
		out.WriteString(ui.HelpStyle.Render("e.g. 8, 16, 32 • enter to submit • esc to quit") + "\n")

	case StateDone:
		if m.report != nil && m.conf.Format == batch.FormatText {
			out.WriteString(renderReport(m.report))
		}

	case StateError:
		if m.err != nil && m.err.Type != ui.ErrorTypeUserCancelled {
			out.WriteString(ui.FormatError(m.err))
		}
	}

	return out.String()
}

// Error returns the error if any occurred during execution
func (m *AllocateView) Error() error {
	if m.err == nil {
		return nil
	}
	return m.err
}

// Report returns the evaluated batch, or nil if the flow did not complete
func (m *AllocateView) Report() *batch.Report {
	return m.report
}

// Messages

type lineReadMsg struct {
	text string
}

// nextPrompt returns the first state that still needs input
func (m *AllocateView) nextPrompt() AllocateState {
	switch {
	case m.volume == "":
		return StatePromptVolume
	case m.fileCounts == "":
		return StatePromptFileCounts
	default:
		return StateDone
	}
}

func (m *AllocateView) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.conf.SimpleOutput() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.err = ui.NewUserCancelledError()
		m.state = StateError
		return m, tea.Quit

	case tea.KeyEnter:
		if m.state != StatePromptVolume && m.state != StatePromptFileCounts {
			return m, nil
		}
		value := m.input.Value()
		m.input.Reset()
		return m.onAnswer(value)
	}

	if m.state != StatePromptVolume && m.state != StatePromptFileCounts {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// onAnswer records the answer to the current prompt and moves on
func (m *AllocateView) onAnswer(text string) (tea.Model, tea.Cmd) {
	switch m.state {
	case StatePromptVolume:
		m.volume = text
	case StatePromptFileCounts:
		m.fileCounts = text
	default:
		return m, nil
	}

	slog.Debug("Prompt answered", "state", m.state, "answer", text)

	if m.state == StatePromptVolume {
		// A bad volume aborts before the file counts are asked for
		if _, err := alloc.ParseVolume(text); err != nil {
			return m, m.failInput(fmt.Errorf("%w: %w", batch.ErrInvalidInput, err))
		}
	}

	if m.state == StatePromptVolume && m.fileCounts == "" {
		m.state = StatePromptFileCounts
		m.input.Prompt = FileCountsPrompt
		if m.conf.SimpleOutput() {
			return m, m.promptLine()
		}
		return m, nil
	}

	m.state = StateDone
	return m, m.finish()
}

// finish evaluates the batch and prints results in simple mode
func (m *AllocateView) finish() tea.Cmd {
	var report *batch.Report
	if m.conf.Measured != nil {
		counts, err := batch.ParseFileCounts(m.fileCounts)
		if err != nil {
			return m.failInput(err)
		}
		report = batch.Evaluate(*m.conf.Measured, counts)
	} else {
		var err error
		if report, err = batch.Run(m.volume, m.fileCounts); err != nil {
			return m.failInput(err)
		}
	}

	m.report = report
	m.state = StateDone

	if m.conf.SimpleOutput() && m.conf.Format == batch.FormatText {
		if err := batch.WriteText(m.conf.Out, report); err != nil {
			m.err = ui.NewInternalError(fmt.Errorf("failed to write results: %w", err))
		}
	}
	return tea.Quit
}

// failInput aborts the whole batch with the single invalid-input message
func (m *AllocateView) failInput(err error) tea.Cmd {
	slog.Debug("Batch aborted", "error", err)
	m.state = StateError
	m.err = ui.NewInputError(batch.InvalidInputMessage, err)
	m.err.SilentExit = true // Printed below or shown in View()

	if m.conf.SimpleOutput() {
		fmt.Fprintln(m.conf.Out, batch.InvalidInputMessage) //nolint:errcheck // Console output
	}
	return tea.Quit
}

// promptLine prints the current prompt and returns a command that reads the answer
func (m *AllocateView) promptLine() tea.Cmd {
	fmt.Fprint(m.conf.Prompts, m.input.Prompt) //nolint:errcheck // Console output
	return m.readLine
}

// readLine blocks for one line of input. EOF ends the line.
func (m *AllocateView) readLine() tea.Msg {
	if m.reader == nil {
		return ui.NewInternalError(fmt.Errorf("no input available"))
	}

	line, err := m.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ui.NewInternalError(fmt.Errorf("failed to read input: %w", err))
	}
	return lineReadMsg{text: strings.TrimRight(line, "\r\n")}
}

// renderReport lays the batch out as a panel with one section per file count
func renderReport(r *batch.Report) string {
	sections := make([]ui.TableSection, 0, len(r.Entries))
	for _, e := range r.Entries {
		if !e.OK() {
			sections = append(sections, ui.TableSection{
				Rows: []ui.TableRow{{Label: "Skipped", Value: ui.WarningStyle.Render(e.Warning())}},
			})
			continue
		}

		a := e.Allocation
		sections = append(sections, ui.TableSection{
			Header: fmt.Sprintf("%s %s", ui.FormatCount(int64(a.NumFiles)), ui.Pluralize(a.NumFiles, "file", "files")),
			Rows: []ui.TableRow{
				{Label: "GiB per file", Value: ui.FormatGiB(a.GiB())},
				{Label: "MiB per file", Value: ui.CyanStyle.Render(ui.FormatCount(a.MiB))},
				{Label: "KiB per file", Value: ui.FormatCount(a.KiB())},
			},
		})
	}

	return ui.RenderPanel(fmt.Sprintf("%s GiB", r.Volume), ui.RenderDetailTable(sections))
}
