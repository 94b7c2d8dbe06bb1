package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wkelton/jellytrek/internal/manifest"
	"github.com/wkelton/jellytrek/internal/matching"
	"github.com/wkelton/jellytrek/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	ListView
	DetailView
)

// Checker runs a reconciliation; [tasks.PlaylistEngine] satisfies it.
type Checker interface {
	Check(ctx context.Context, entries []manifest.Entry, progress chan<- tasks.ProgressUpdate) (*tasks.CheckResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	checker      Checker
	entries      []manifest.Entry
	width        int
	height       int
	report       *matching.Report
	filter       Filter
	results      list.Model
	selected     *matching.Result
	progressChan chan tasks.ProgressUpdate
	done         chan Msg
	progress     tasks.ProgressUpdate
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that reconciles entries with checker.
func NewModel(ctx context.Context, checker Checker, entries []manifest.Entry) *Model {
	results := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	results.Title = FilterAll.String()

	return &Model{
		ctx:     ctx,
		view:    LoadingView,
		checker: checker,
		entries: entries,
		results: results,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Report returns the last completed reconciliation, or nil.
func (m *Model) Report() *matching.Report { return m.report }

// Err returns the error of the last reconciliation, if any.
func (m *Model) Err() error { return m.err }

// Init starts the first reconciliation.
func (m *Model) Init() tea.Cmd {
	return m.startCheck()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			return m.handleLoadingKeys(msg)
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, waitForProgress(m.progressChan, m.done)
		case MsgCheckComplete:
			return m.handleCheckComplete(msg.data.(checkComplete))
		}
	}

	var cmd tea.Cmd
	if m.view == ListView {
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleCheckComplete(done checkComplete) (tea.Model, tea.Cmd) {
	m.progressChan = nil
	m.done = nil
	if done.err != nil {
		m.err = done.err
		return m, nil
	}

	m.err = nil
	m.report = done.result.Report
	m.view = ListView
	return m, m.applyFilter(m.filter)
}

func (m *Model) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload) && m.err != nil:
		return m, m.startCheck()
	}
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.results.SelectedItem().(resultItem); ok {
			m.selected = &item.result
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.filter):
		return m, m.applyFilter(m.filter.next())
	case key.Matches(msg, m.keys.reload):
		return m, m.startCheck()
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.selected = nil
		m.view = ListView
	}
	return m, nil
}

func (m *Model) applyFilter(f Filter) tea.Cmd {
	m.filter = f
	items := filterItems(m.report, f)
	m.results.Title = fmt.Sprintf("%s (%d)", f, len(items))
	m.results.ResetSelected()
	return m.results.SetItems(items)
}

func (m *Model) startCheck() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.done = done
	m.progress = tasks.ProgressUpdate{}
	m.err = nil
	m.view = LoadingView

	ctx, checker, entries := m.ctx, m.checker, m.entries
	go func() {
		result, err := checker.Check(ctx, entries, progress)
		close(progress)
		done <- checkCompleteMsg(result, err)
	}()

	return waitForProgress(progress, done)
}

// waitForProgress relays progress updates until the channel closes, then the completion message.
func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) renderLoading() string {
	if m.err != nil {
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.reload, m.keys.quit})
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Check failed: %v", m.err)), helpView)
	}

	title := styles.title.Render("Reconciling Manifest")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchLibrary:
		phase = fmt.Sprintf("Fetching libraries (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.IndexLibrary:
		phase = fmt.Sprintf("Indexing libraries (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.MatchEntries:
		phase = "Matching entries..."
	default:
		phase = "Starting..."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.progress.Message, helpView)
}

func (m *Model) renderList() string {
	summary := styles.help.Render(m.report.Summary())
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.filter, m.keys.reload, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s\n\n%s", m.results.View(), summary, helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	r := m.selected
	e := r.Entry

	var b strings.Builder
	b.WriteString(styles.title.Render(e.Label()) + "\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render(label), value)
	}

	row("Line", fmt.Sprint(e.Line))
	row("Parent", e.ParentCode)
	row("Series", e.SeriesName)
	row("Outcome", styles.outcome(r.Outcome))

	switch r.Outcome {
	case matching.Matched:
		row("Item", fmt.Sprintf("%s (%s)", r.Title, r.ID))
		row("Rule", r.Stage.String())
	case matching.AssumedMerged:
		row("Item", fmt.Sprintf("%s (%s)", r.Title, r.ID))
		row("Merged with", r.MergedWith)
	default:
		row("Failed at", r.FailedStep.String())
		row("Series id", r.SeriesID)
		row("Season id", r.SeasonID)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}
