package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/usecase"
)

// Colors used in command output.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorError   = lipgloss.Color("#EF4444") // Red
	colorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

// newTable returns a table in the house style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleMuted).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		})
}

// taskLabel formats a task as "name (id)".
func taskLabel(t *domain.Task) string {
	return fmt.Sprintf("%s (%d)", t.Name, t.ID)
}

func priorityText(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return styleError.Render(string(p))
	case domain.PriorityMedium:
		return styleWarning.Render(string(p))
	case domain.PriorityBacklog:
		return styleMuted.Render(string(p))
	default:
		return string(p)
	}
}

func statusText(s domain.Status) string {
	switch s {
	case domain.StatusComplete:
		return styleSuccess.Render(string(s))
	case domain.StatusDiscarded:
		return styleMuted.Render(string(s))
	default:
		return string(s)
	}
}

func dateText(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func dueText(t *domain.Task) string {
	if t.Due == nil {
		return "-"
	}
	return dateText(*t.Due)
}

func tagsText(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func idsText(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

// dependencyTree renders a dependency tree rooted at the task.
func dependencyTree(node *usecase.DependencyNode) *tree.Tree {
	t := tree.Root(taskLabel(node.Task)).
		EnumeratorStyle(styleMuted).
		RootStyle(styleTitle)
	for _, child := range node.Children {
		if len(child.Children) == 0 {
			t.Child(taskLabel(child.Task))
			continue
		}
		t.Child(dependencyTree(child))
	}
	return t
}
