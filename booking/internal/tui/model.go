// Package tui is the terminal front-end of the booking client: the flight
// list, the purchase form with its CAPTCHA mount point, and the submission
// message.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/meetupaws/flight_ticket_booking/booking/internal/captcha"
	"github.com/meetupaws/flight_ticket_booking/booking/internal/catalog"
	"github.com/meetupaws/flight_ticket_booking/booking/internal/purchase"
)

// Widget is the CAPTCHA widget as the terminal sees it: besides the
// purchase capability it takes the pasted proof token.
type Widget interface {
	captcha.Widget
	SetToken(token string) bool
	Rendered() string
	ChallengeURL() string
}

type focusRegion int

const (
	focusList focusRegion = iota
	focusName
	focusEmail
	focusToken
	focusCount
)

// catalogLoadedMsg is sent once the catalog fetch finishes.
type catalogLoadedMsg struct {
	err error
}

// captchaSettledMsg is sent once the widget loaded, or failed to.
type captchaSettledMsg struct {
	err error
}

// purchaseDoneMsg carries the result of a submission back to the loop.
type purchaseDoneMsg struct {
	attempt uint64
	result  purchase.Result
}

type Model struct {
	ctx        context.Context
	loader     *catalog.Loader
	controller *purchase.Controller
	widget     Widget
	captcha    captcha.Options
	log        logrus.FieldLogger

	cursor  int
	focus   focusRegion
	inputs  [focusCount]textinput.Model
	width   int
	catalog struct {
		loaded bool
		err    error
	}
	challenge struct {
		settled bool
		err     error
	}
}

func New(ctx context.Context, loader *catalog.Loader, controller *purchase.Controller, widget Widget, opts captcha.Options, log logrus.FieldLogger) Model {
	m := Model{
		ctx:        ctx,
		loader:     loader,
		controller: controller,
		widget:     widget,
		captcha:    opts,
		log:        log,
	}

	// inputs[focusList] stays unused, the list has no text field
	m.inputs[focusName] = newInput("Full name", 0)
	m.inputs[focusEmail] = newInput("E-mail", 0)
	m.inputs[focusToken] = newInput("Challenge token", 0)
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "  "
	input.CharLimit = limit
	return input
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog, m.bindCaptcha, textinput.Blink)
}

func (m Model) loadCatalog() tea.Msg {
	return catalogLoadedMsg{err: m.loader.Load(m.ctx)}
}

func (m Model) bindCaptcha() tea.Msg {
	// The purchase form always lays out the widget container.
	mounted := func(id string) bool {
		return id == captcha.MountPoint
	}
	return captchaSettledMsg{err: captcha.BindWait(m.ctx, m.widget, m.captcha, mounted, m.log)}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case catalogLoadedMsg:
		m.catalog.loaded = true
		m.catalog.err = msg.err
		m.clampCursor()
		return m, nil

	case captchaSettledMsg:
		m.challenge.settled = true
		m.challenge.err = msg.err
		return m, nil

	case purchaseDoneMsg:
		m.controller.Complete(msg.attempt, msg.result)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.controller.Close()
		m.loader.Close()
		return m, tea.Quit

	case key.Matches(msg, keys.Buy):
		return m, m.submit()

	case key.Matches(msg, keys.Next):
		return m, m.setFocus((m.focus + 1) % focusCount)

	case key.Matches(msg, keys.Previous):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus != focusList {
		return m.updateInput(msg)
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.loader.Flights())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Select):
		flights := m.loader.Flights()
		if m.cursor < len(flights) {
			m.controller.SelectFlight(string(flights[m.cursor].ID))
		}
	}
	return m, nil
}

// submit hands the form to the controller and, when it accepts, performs
// the request off the loop.
func (m *Model) submit() tea.Cmd {
	m.controller.SetPassenger(m.inputs[focusName].Value(), m.inputs[focusEmail].Value())
	attempt := m.controller.Submit()
	if attempt == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return purchaseDoneMsg{attempt: attempt.ID, result: attempt.Do(ctx)}
	}
}

func (m *Model) setFocus(f focusRegion) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := focusName; i < focusCount; i++ {
		if i == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == focusList {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.focus == focusToken {
		m.widget.SetToken(m.inputs[focusToken].Value())
	}
	return m, cmd
}

func (m *Model) clampCursor() {
	n := len(m.loader.Flights())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
