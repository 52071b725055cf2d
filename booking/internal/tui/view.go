package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/meetupaws/flight_ticket_booking/booking/internal/purchase"
	"github.com/meetupaws/flight_ticket_booking/internal/contract"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headingStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle    = lipgloss.NewStyle().Width(18)
	focusedLabel  = labelStyle.Foreground(lipgloss.Color("212"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (m Model) View() string {
	b := strings.Builder{}
	b.WriteString(titleStyle.Render("Flight Booking"))
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Available flights"))
	b.WriteString("\n")
	b.WriteString(m.flightsView())

	b.WriteString(headingStyle.Render("Buy a ticket"))
	b.WriteString("\n")
	b.WriteString(m.formView())

	if msg := m.controller.Message(); msg.Kind != purchase.MessageNone {
		b.WriteString("\n")
		b.WriteString(messageView(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpView()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) flightsView() string {
	flights := m.loader.Flights()
	switch {
	case !m.catalog.loaded:
		return dimStyle.Render("Loading flights...") + "\n"
	case m.catalog.err != nil:
		return errorStyle.Render("Flights are unavailable right now") + "\n"
	case len(flights) == 0:
		return dimStyle.Render("No flights") + "\n"
	}

	b := strings.Builder{}
	selection := m.controller.Selection()
	for i, f := range flights {
		pointer := "  "
		if i == m.cursor && m.focus == focusList {
			pointer = cursorStyle.Render("> ")
		}
		line := flightLine(f)
		if string(f.ID) == selection {
			line = selectedStyle.Render(line + " ✓")
		}
		b.WriteString(pointer + line + "\n")
	}
	return b.String()
}

func flightLine(f contract.FlightOffer) string {
	return fmt.Sprintf("✈ %-8s %s → %s  %s ₽", f.Number, f.Departure, f.Arrival, strconv.FormatFloat(f.Price, 'f', -1, 64))
}

func (m Model) formView() string {
	b := strings.Builder{}

	selection := m.controller.Selection()
	if selection == "" {
		selection = "—"
	} else if f, ok := m.loader.Find(selection); ok {
		selection = f.Number
	}
	b.WriteString(labelStyle.Render("Selected flight:") + selection + "\n")
	b.WriteString(m.label(focusName, "Name:") + m.inputs[focusName].View() + "\n")
	b.WriteString(m.label(focusEmail, "E-mail:") + m.inputs[focusEmail].View() + "\n")
	b.WriteString(m.captchaView())
	return b.String()
}

// captchaView is the widget's mount point.
func (m Model) captchaView() string {
	switch {
	case !m.challenge.settled:
		return labelStyle.Render("Challenge:") + dimStyle.Render("loading...") + "\n"
	case m.widget.Rendered() == "":
		return labelStyle.Render("Challenge:") + errorStyle.Render("unavailable") + "\n"
	}

	b := strings.Builder{}
	if url := m.widget.ChallengeURL(); url != "" {
		b.WriteString(labelStyle.Render("Challenge:") + "solve at " + url + "\n")
	} else {
		b.WriteString(labelStyle.Render("Challenge:") + "solve the challenge and paste its token\n")
	}
	b.WriteString(m.label(focusToken, "Token:") + m.inputs[focusToken].View() + "\n")
	return b.String()
}

func (m Model) label(f focusRegion, text string) string {
	if m.focus == f {
		return focusedLabel.Render(text)
	}
	return labelStyle.Render(text)
}

func messageView(msg purchase.Message) string {
	switch msg.Kind {
	case purchase.MessageSuccess:
		link := ansi.SetHyperlink(msg.TicketURL) + msg.TicketURL + ansi.ResetHyperlink()
		return successStyle.Render("✅ "+msg.Text+": ") + link
	case purchase.MessageError:
		return errorStyle.Render("❌ " + msg.Text)
	case purchase.MessageInFlight:
		return pendingStyle.Render(msg.Text)
	default:
		return msg.Text
	}
}

func (m Model) helpView() string {
	parts := []string{}
	for _, binding := range keys.help() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
