package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Backland-Labs/courier/internal/core"
)

var (
	reviewColor  = lipgloss.Color("#F59E0B") // yellow
	emailColor   = lipgloss.Color("#3B82F6") // blue
	chatColor    = lipgloss.Color("#10B981") // green
	labelColor   = lipgloss.Color("#06B6D4") // cyan
	mutedColor   = lipgloss.Color("#6B7280") // gray
	dangerColor  = lipgloss.Color("#EF4444") // red
	successColor = lipgloss.Color("#10B981") // green
)

const ruleWidth = 50

// Row is one line of a settings table
type Row struct {
	Name  string
	Valid bool
	Value string
}

func (p *Printer) panel(title string, border lipgloss.TerminalColor, content string) string {
	titleStyle := p.renderer.NewStyle().Bold(true).Foreground(border)
	box := p.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
	return titleStyle.Render(title) + "\n" + box.Render(content)
}

func (p *Printer) label(name string) string {
	return p.renderer.NewStyle().Bold(true).Foreground(labelColor).Render(name + ":")
}

// EmailReview shows a drafted email awaiting a decision
func (p *Printer) EmailReview(subject, body string, recipients []string) {
	content := fmt.Sprintf("%s %s\n%s %s\n\n%s\n\n%s",
		p.label("To"), strings.Join(recipients, ", "),
		p.label("Subject"), subject,
		strings.Repeat("─", ruleWidth),
		body)
	p.Println()
	p.Println(p.panel("Generated Email - Please Review", reviewColor, content))
	p.Println()
}

// ChatReview shows a drafted chat message awaiting a decision
func (p *Printer) ChatReview(message, roomID string, mentions []string) {
	mentioned := "(none)"
	if len(mentions) > 0 {
		mentioned = strings.Join(mentions, ", ")
	}
	content := fmt.Sprintf("%s %s\n%s %s\n\n%s\n\n%s",
		p.label("Room ID"), roomID,
		p.label("Mentions"), mentioned,
		strings.Repeat("─", ruleWidth),
		message)
	p.Println()
	p.Println(p.panel("Generated Webex Message - Please Review", reviewColor, content))
	p.Println()
}

// GeneratedContent shows both drafts of a run
func (p *Printer) GeneratedContent(s core.RunState) {
	subject := orNA(s.Email.Subject)
	body := orNA(s.Email.Body)
	p.Println(p.panel("Generated Email", emailColor, fmt.Sprintf("%s %s\n\n%s", p.label("Subject"), subject, body)))
	p.Println()
	if s.Chat.Message != "" {
		p.Println(p.panel("Generated Webex Message", chatColor, s.Chat.Message))
		p.Println()
	}
}

// ReviewOptions lists the choices at a gate
func (p *Printer) ReviewOptions(title, approve, edit, reject string) {
	ok := p.renderer.NewStyle().Foreground(successColor)
	warn := p.renderer.NewStyle().Foreground(reviewColor)
	bad := p.renderer.NewStyle().Foreground(dangerColor)
	p.Println(p.renderer.NewStyle().Bold(true).Render(title))
	p.Println("  " + ok.Render("a") + " - " + approve)
	p.Println("  " + warn.Render("e") + " - " + edit)
	p.Println("  " + bad.Render("r") + " - " + reject)
	p.Println()
}

// Results renders the per-channel outcome of a run
func (p *Printer) Results(s core.RunState) {
	emailStatus, emailDetails := emailOutcome(s)
	chatStatus, chatDetails := chatOutcome(s)

	t := p.table("Channel", "Status", "Details").
		Row("Email", emailStatus, emailDetails).
		Row("Webex", chatStatus, chatDetails)

	p.Println(p.renderer.NewStyle().Bold(true).Render("Workflow Results"))
	p.Println(t.String())
}

// Settings renders a configuration table
func (p *Printer) Settings(rows []Row) {
	t := p.table("Setting", "Status", "Value")
	for _, r := range rows {
		mark := "✓"
		if !r.Valid {
			mark = "✗"
		}
		t.Row(r.Name, mark, r.Value)
	}

	p.Println(p.renderer.NewStyle().Bold(true).Render("Configuration Status"))
	p.Println(t.String())
}

func (p *Printer) table(headers ...string) *table.Table {
	header := p.renderer.NewStyle().Bold(true).Padding(0, 1)
	first := p.renderer.NewStyle().Foreground(labelColor).Padding(0, 1)
	cell := p.renderer.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.renderer.NewStyle().Foreground(mutedColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return first
			default:
				return cell
			}
		})
}

func emailOutcome(s core.RunState) (string, string) {
	var status string
	switch {
	case s.Status == core.StatusDryRun:
		status = "⏸ Skipped (dry run)"
	case s.Email.Sent:
		status = "✓ Sent"
	case s.Status == core.StatusCancelled:
		status = "⏸ Cancelled"
	default:
		status = "✗ Failed"
	}

	switch {
	case s.Email.Error != "":
		return status, s.Email.Error
	case s.Status == core.StatusCancelled && !s.Email.Sent:
		return status, reasonOr(s.Email.RejectionReason, "User rejected")
	default:
		return status, "To: " + strings.Join(s.EmailRecipients, ", ")
	}
}

func chatOutcome(s core.RunState) (string, string) {
	var status string
	switch {
	case s.Status == core.StatusDryRun:
		status = "⏸ Skipped (dry run)"
	case s.Chat.Posted:
		status = "✓ Posted"
	case s.Status == core.StatusCancelled:
		status = "⏸ Cancelled"
	case s.Chat.Message != "":
		status = "✗ Failed"
	default:
		status = "Not generated"
	}

	switch {
	case s.Chat.Error != "":
		return status, s.Chat.Error
	case s.Status == core.StatusCancelled:
		return status, reasonOr(s.Chat.RejectionReason, "Workflow cancelled")
	default:
		return status, "Room: " + Truncate(s.ChatRoomID, 20)
	}
}

// Truncate shortens s to n runes followed by "..."
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
