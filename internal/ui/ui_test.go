package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wkelton/jellytrek/internal/manifest"
	"github.com/wkelton/jellytrek/internal/matching"
	"github.com/wkelton/jellytrek/internal/tasks"
)

type stubChecker struct {
	result *tasks.CheckResult
	err    error
	calls  int
}

func (s *stubChecker) Check(_ context.Context, entries []manifest.Entry, progress chan<- tasks.ProgressUpdate) (*tasks.CheckResult, error) {
	s.calls++
	progress <- tasks.ProgressUpdate{Phase: tasks.FetchLibrary, Step: 1, Total: 2, Message: "Fetching library \"Movies\"..."}
	return s.result, s.err
}

func entry(t *testing.T, parent string, season, episode int, name string) manifest.Entry {
	t.Helper()
	e, err := manifest.NewEntry(parent, &season, &episode, name)
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}
	return e
}

func sampleResult(t *testing.T) *tasks.CheckResult {
	t.Helper()
	trap := entry(t, "TOS", 1, 1, "The Man Trap")
	brain := entry(t, "TOS", 3, 1, "Spock's Brain")
	part2 := entry(t, "DS9", 3, 12, "Past Tense, Part II")

	return &tasks.CheckResult{Report: &matching.Report{
		Total: 3, Matched: 1, Unmatched: 1, Merged: 1,
		IDs: []string{"ep-trap"}, Names: []string{"The Man Trap"},
		Results: []matching.Result{
			{Entry: trap, Outcome: matching.Matched, ID: "ep-trap", Title: "The Man Trap", Stage: matching.StageExact},
			{Entry: brain, Outcome: matching.Unmatched, SeriesID: "tos", FailedStep: matching.StepSeason},
			{Entry: part2, Outcome: matching.AssumedMerged, ID: "ep-past", Title: "Past Tense", MergedWith: "Past Tense, Part I"},
		},
	}}
}

// drain runs cmd until it yields the check completion, feeding every message through Update.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		_, cmd = m.Update(msg)
		if done, ok := msg.(Msg); ok && done.kind == MsgCheckComplete {
			return
		}
	}
	t.Fatal("check never completed")
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModelLifecycle(t *testing.T) {
	checker := &stubChecker{result: sampleResult(t)}
	m := NewModel(context.Background(), checker, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	cmd := m.Init()
	if m.view != LoadingView {
		t.Fatalf("expected LoadingView, got %v", m.view)
	}

	progress := cmd()
	m.Update(progress)
	if !strings.Contains(m.View(), "Fetching libraries (1/2)") {
		t.Errorf("loading view should show progress, got:\n%s", m.View())
	}

	drain(t, m, waitForProgress(m.progressChan, m.done))
	if m.view != ListView {
		t.Fatalf("expected ListView after completion, got %v", m.view)
	}
	if m.Report() == nil || m.Report().Total != 3 {
		t.Fatalf("unexpected report %+v", m.Report())
	}
	if got := len(m.results.Items()); got != 3 {
		t.Errorf("expected 3 items, got %d", got)
	}
	if !strings.Contains(m.View(), "Videos in list: 3") {
		t.Errorf("list view should include the summary, got:\n%s", m.View())
	}
}

func TestModelFilters(t *testing.T) {
	m := NewModel(context.Background(), &stubChecker{}, nil)
	m.Update(checkCompleteMsg(sampleResult(t), nil))

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterUnmatched, []string{"Spock's Brain"}},
		{FilterMerged, []string{"Past Tense, Part II"}},
		{FilterAll, []string{"The Man Trap", "Spock's Brain", "Past Tense, Part II"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			m.Update(keyPress("f"))
			if m.filter != tt.filter {
				t.Fatalf("filter = %v, want %v", m.filter, tt.filter)
			}
			items := m.results.Items()
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.want))
			}
			for i, item := range items {
				if name := item.(resultItem).result.Entry.Name; name != tt.want[i] {
					t.Errorf("items[%d] = %q, want %q", i, name, tt.want[i])
				}
			}
		})
	}
}

func TestModelDetail(t *testing.T) {
	m := NewModel(context.Background(), &stubChecker{}, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(checkCompleteMsg(sampleResult(t), nil))
	m.Update(keyPress("f"))

	m.Update(keyPress("enter"))
	if m.view != DetailView || m.selected == nil {
		t.Fatalf("enter should open the detail view, view = %v", m.view)
	}
	view := m.View()
	for _, want := range []string{"Spock's Brain", "season", "tos"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q, got:\n%s", want, view)
		}
	}

	m.Update(keyPress("esc"))
	if m.view != ListView || m.selected != nil {
		t.Errorf("esc should return to the list, view = %v", m.view)
	}
}

func TestModelCheckError(t *testing.T) {
	checker := &stubChecker{err: errors.New("boom")}
	m := NewModel(context.Background(), checker, nil)

	drain(t, m, m.Init())
	if m.view != LoadingView || m.Err() == nil {
		t.Fatalf("expected error in loading view, view = %v err = %v", m.view, m.Err())
	}
	if !strings.Contains(m.View(), "Check failed: boom") {
		t.Errorf("unexpected view:\n%s", m.View())
	}

	checker.err = nil
	checker.result = sampleResult(t)
	_, cmd := m.Update(keyPress("r"))
	if cmd == nil {
		t.Fatal("r should re-run the check after a failure")
	}
	drain(t, m, cmd)
	if m.view != ListView || checker.calls != 2 {
		t.Errorf("expected a second successful run, view = %v calls = %d", m.view, checker.calls)
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(context.Background(), &stubChecker{}, nil)
	m.Update(checkCompleteMsg(sampleResult(t), nil))

	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestResultItem(t *testing.T) {
	for _, r := range sampleResult(t).Report.Results {
		item := resultItem{result: r}
		if item.Title() != r.Entry.Label() {
			t.Errorf("Title() = %q, want %q", item.Title(), r.Entry.Label())
		}
		if item.FilterValue() != r.Entry.Name {
			t.Errorf("FilterValue() = %q", item.FilterValue())
		}
	}

	if got := (resultItem{result: sampleResult(t).Report.Results[1]}).Description(); !strings.Contains(got, "no season match") {
		t.Errorf("unmatched description = %q", got)
	}
}
