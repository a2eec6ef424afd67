package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vk/serialgraph/internal/schedule"
)

const (
	verdictSerializable    = "Schedule is Conflict Serializable"
	verdictNotSerializable = "Precedence Graph is Cyclic, Schedule is NOT Conflict Serializable"
)

// Colors
var (
	accent  = lipgloss.Color("#FF0000")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

// styles are bound to one renderer so color output follows the destination
// writer rather than stdout.
type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	border  lipgloss.Style
}

func newStyles(re *lipgloss.Renderer) styles {
	return styles{
		title:   re.NewStyle().Bold(true).Foreground(white),
		header:  re.NewStyle().Bold(true).Padding(0, 1),
		cell:    re.NewStyle().Padding(0, 1),
		muted:   re.NewStyle().Foreground(muted),
		success: re.NewStyle().Foreground(success).Bold(true),
		failure: re.NewStyle().Foreground(accent).Bold(true),
		border:  re.NewStyle().Foreground(muted),
	}
}

// WriteText writes a human-readable report: the schedule grid, the edge list,
// the verdict and either the witness cycle or an equivalent serial order.
func WriteText(w io.Writer, r *Report) error {
	st := newStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	b.WriteString(st.title.Render("Schedule: "+r.Source) + "\n")
	b.WriteString(scheduleTable(st, r).String() + "\n")

	if len(r.Edges) == 0 {
		b.WriteString(st.muted.Render("Precedence graph has no edges.") + "\n")
	} else {
		b.WriteString(st.title.Render("Precedence edges") + "\n")
		b.WriteString(edgeTable(st, r).String() + "\n")
	}

	if r.Serializable {
		b.WriteString(st.success.Render(verdictSerializable) + "\n")
		if len(r.SerialOrder) > 0 {
			b.WriteString(st.muted.Render("Equivalent serial order: ") + joinIDs(r.SerialOrder, " → ") + "\n")
		}
	} else {
		b.WriteString(st.failure.Render(verdictNotSerializable) + "\n")
		if len(r.Cycle) > 0 {
			b.WriteString(st.muted.Render("Cycle: ") + joinIDs(r.Cycle, " → ") + "\n")
		}
		for i, c := range r.Cycles {
			b.WriteString(st.muted.Render(fmt.Sprintf("  #%d ", i+1)) + joinIDs(c, " → ") + "\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func scheduleTable(st styles, r *Report) *table.Table {
	headers := make([]string, 0, len(r.Transactions)+1)
	headers = append(headers, "#")
	for _, txn := range r.Transactions {
		headers = append(headers, string(txn))
	}

	rows := make([][]string, len(r.Steps))
	for i, step := range r.Steps {
		rows[i] = append([]string{fmt.Sprint(i + 1)}, step...)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case col == 0:
				return st.cell.Foreground(muted)
			default:
				return st.cell
			}
		})
}

func edgeTable(st styles, r *Report) *table.Table {
	rows := make([][]string, len(r.Edges))
	for i, e := range r.Edges {
		rows[i] = []string{fmt.Sprintf("%s → %s", e.From, e.To), e.Label()}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers("Edge", "Conflicts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			if row >= 0 && row < len(r.Edges) && r.onCycle(r.Edges[row].From, r.Edges[row].To) {
				return st.cell.Foreground(accent)
			}
			return st.cell
		})
}

func joinIDs(ids []schedule.TxnID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, sep)
}
