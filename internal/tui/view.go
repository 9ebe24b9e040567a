package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shelfscout/shelfscout/internal/domain"
	"github.com/shelfscout/shelfscout/internal/search"
)

// maxDescriptionLines bounds the description shown in the detail pane.
const maxDescriptionLines = 6

// View renders the UI.
func (m *Model) View() string {
	sections := []string{
		m.renderHeader(),
		m.styles.Input.Width(max(m.width-4, 20)).Render(m.input.View()),
		m.renderBody(),
		m.styles.Help.Render(m.help.View(m.keys)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, len(domain.AllScopes()))
	for _, scope := range domain.AllScopes() {
		style := m.styles.Scope
		if scope == m.scope {
			style = m.styles.ScopeActive
		}
		tabs = append(tabs, style.Render(scope.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Title.Render("shelfscout"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Center, tabs...),
	)
}

// renderBody switches over every state variant.
func (m *Model) renderBody() string {
	switch st := m.state.(type) {
	case search.Idle:
		return m.styles.Dim.Render("Type to search the catalog. Tab changes what is matched.")
	case search.Loading:
		return m.spinner.View() + " " + m.styles.Loading.Render("Searching books...")
	case search.Success:
		return m.renderResults(st)
	case search.Empty:
		return m.styles.Empty.Render(st.Message()) + "\n" +
			m.styles.Dim.Render("Try other words, or press esc to clear.")
	case search.Error:
		return m.styles.Error.Render("Search failed: "+st.Message) + "\n" +
			m.styles.Dim.Render("Press ctrl+r to retry.")
	default:
		return ""
	}
}

func (m *Model) renderResults(s search.Success) string {
	var b strings.Builder
	b.WriteString(m.styles.Count.Render(fmt.Sprintf("%d book(s) found", len(s.Books))))
	b.WriteString("\n")

	end := min(m.offset+m.listRows(), len(s.Books))
	for i := m.offset; i < end; i++ {
		book := &s.Books[i]
		line := book.Title + " " + m.styles.Author.Render("by "+book.PrimaryAuthor())
		if year, ok := book.PublishedYear(); ok {
			line += m.styles.Dim.Render(" (" + strconv.Itoa(year) + ")")
		}
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render("▸ ") + line)
		} else {
			b.WriteString(m.styles.Row.Render(line))
		}
		b.WriteString("\n")
	}
	if end < len(s.Books) {
		b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  … %d more", len(s.Books)-end)))
		b.WriteString("\n")
	}

	if book, ok := m.Selected(); ok {
		b.WriteString(m.renderDetail(&book))
	}
	return b.String()
}

func (m *Model) renderDetail(book *domain.Book) string {
	width := max(m.width-4, 20)

	lines := []string{m.styles.Title.Render(book.Title)}
	if book.Subtitle != "" {
		lines = append(lines, m.styles.Dim.Render(book.Subtitle))
	}

	field := func(label, value string) {
		if value != "" {
			lines = append(lines, m.styles.Label.Render(label)+value)
		}
	}
	authors := book.AuthorsString()
	if authors == "" {
		authors = domain.UnknownAuthor
	}
	field("Authors", authors)
	field("Publisher", book.Publisher)
	if year, ok := book.PublishedYear(); ok {
		field("Year", strconv.Itoa(year))
	}
	if book.PageCount != nil {
		field("Pages", strconv.Itoa(*book.PageCount))
	}
	field("Categories", strings.Join(book.Categories, ", "))
	field("Language", book.Language)

	if desc := strings.TrimSpace(book.Description); desc != "" {
		wrapped := lipgloss.NewStyle().Width(width - 4).Render(desc)
		descLines := strings.Split(wrapped, "\n")
		if len(descLines) > maxDescriptionLines {
			descLines = append(descLines[:maxDescriptionLines], "…")
		}
		lines = append(lines, "", strings.Join(descLines, "\n"))
	}

	return m.styles.Detail.Width(width).Render(strings.Join(lines, "\n"))
}
