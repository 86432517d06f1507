package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	service "github.com/okian/ivtrack/internal/app"
	"github.com/okian/ivtrack/internal/domain/gamedata"
	"github.com/okian/ivtrack/internal/domain/timeline"
)

// styles are bound to one writer so colour is only emitted on terminals.
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	bad    lipgloss.Style
	dim    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true),
		header: r.NewStyle().Bold(true).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		bad:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (s styles) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func percent(p float64) string { return strconv.FormatFloat(p, 'f', 1, 64) + "%" }

func summaryLine(rep service.Report) string {
	t := rep.Timeline
	if !rep.Consistent {
		return fmt.Sprintf("%s (%s): inconsistent history", t.Name(), t.Species())
	}
	return fmt.Sprintf("%s (%s) CP %d: %d candidates, %s - %s",
		t.Name(), t.Species(), t.CP(), len(rep.Candidates), percent(rep.MinPercent), percent(rep.MaxPercent))
}

func renderReport(w io.Writer, rep service.Report, limit int) error {
	s := newStyles(w)
	t := rep.Timeline
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", s.title.Render(t.Name()+" ("+t.Species()+")"), s.dim.Render(t.ID))
	fmt.Fprintf(&b, "CP %d  HP %d  events %d\n", t.CP(), t.HP(), len(t.Events))
	if t.Appraisal != nil {
		fmt.Fprintf(&b, "appraisal: %s\n", t.Appraisal)
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(rep.Steps))
	for _, st := range rep.Steps {
		rows = append(rows, []string{
			strconv.Itoa(st.Index),
			string(st.Stage),
			st.Species,
			strconv.Itoa(st.Remaining),
			strconv.Itoa(st.Dropped),
		})
	}
	b.WriteString(s.table([]string{"#", "stage", "species", "remaining", "dropped"}, rows))
	b.WriteString("\n\n")

	if !rep.Consistent {
		msg := "inconsistent history: no hidden stats explain every observation"
		if st, ok := rep.EmptiedAt(); ok {
			msg = fmt.Sprintf("inconsistent history: no candidate left after step %d (%s)", st.Index, st.Stage)
		}
		b.WriteString(s.bad.Render(msg))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "quality %s - %s over %d candidates (%d distinct stat triples)\n",
		percent(rep.MinPercent), percent(rep.MaxPercent), len(rep.Candidates), rep.Distinct)

	shown := rep.Candidates
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	rows = rows[:0]
	for _, c := range shown {
		rows = append(rows, []string{
			strconv.Itoa(c.Attack),
			strconv.Itoa(c.Defense),
			strconv.Itoa(c.Stamina),
			strconv.FormatFloat(c.Level.Level(), 'f', -1, 64),
			percent(c.Percentage()),
		})
	}
	b.WriteString(s.table([]string{"atk", "def", "sta", "level", "iv"}, rows))
	b.WriteString("\n")
	if rest := len(rep.Candidates) - len(shown); rest > 0 {
		b.WriteString(s.dim.Render(fmt.Sprintf("... and %d more", rest)))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderList(w io.Writer, ts []*timeline.Timeline) error {
	if len(ts) == 0 {
		_, err := io.WriteString(w, "no timelines\n")
		return err
	}
	rows := make([][]string, 0, len(ts))
	for _, t := range ts {
		appraised := ""
		if t.Appraisal != nil {
			appraised = t.Appraisal.String()
		}
		rows = append(rows, []string{
			t.ID,
			t.Name(),
			t.Species(),
			strconv.Itoa(t.CP()),
			strconv.Itoa(t.HP()),
			strconv.Itoa(len(t.Events)),
			appraised,
		})
	}
	s := newStyles(w)
	_, err := io.WriteString(w, s.table([]string{"id", "name", "species", "cp", "hp", "events", "appraisal"}, rows)+"\n")
	return err
}

func renderSpecies(w io.Writer, all []gamedata.Species) error {
	rows := make([][]string, 0, len(all))
	for _, sp := range all {
		rows = append(rows, []string{
			sp.Name,
			strconv.Itoa(sp.Attack),
			strconv.Itoa(sp.Defense),
			strconv.Itoa(sp.Stamina),
		})
	}
	s := newStyles(w)
	_, err := io.WriteString(w, s.table([]string{"species", "attack", "defense", "stamina"}, rows)+"\n")
	return err
}
