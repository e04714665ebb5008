package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/gacha-rooms/internal/engine"
	"github.com/tatianab/gacha-rooms/internal/models"
)

type sessionState int

const (
	stateInputName sessionState = iota
	statePlaying
	stateError
)

type model struct {
	state       sessionState
	engine      *engine.Engine
	defaultName string
	textInput   textinput.Model
	viewport    viewport.Model
	err         error
	gameLog     string
	width       int
	height      int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6F6F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	rarityStyles = map[models.Rarity]lipgloss.Style{
		models.Common: lipgloss.NewStyle().Foreground(lipgloss.Color("#BBBBBB")),
		models.Rare:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")),
		models.Epic:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D787FF")).Bold(true),
	}
)

func NewModel(eng *engine.Engine, defaultName string) model {
	ti := textinput.New()
	ti.Placeholder = "Your name, or /load to continue..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	return model{
		state:       stateInputName,
		engine:      eng,
		defaultName: defaultName,
		textInput:   ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.Reset()

			if m.state == stateInputName {
				return m.start(input)
			}
			if m.state == statePlaying {
				if input == "" {
					return m, nil
				}
				logWidth := int(float64(m.width) * 0.65)
				m.gameLog += "\n" + userStyle.Width(logWidth).Render("> "+input) + "\n"

				out, err := runCommand(context.Background(), m.engine, input)
				if errors.Is(err, errQuit) {
					return m, tea.Quit
				}
				if errors.Is(err, errRestart) {
					m.state = stateInputName
					m.gameLog = ""
					m.textInput.Placeholder = "Your name, or /load to continue..."
					return m, nil
				}
				if out != "" {
					m.gameLog += gameStyle.Width(logWidth).Render(out) + "\n"
				}
				if err != nil {
					m.gameLog += errorStyle.Width(logWidth).Render(describeError(err)) + "\n"
				}
				m.viewport.SetContent(m.gameLog)
				m.viewport.GotoBottom()
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.65)
		m.viewport.Height = msg.Height - 6
		if m.state == statePlaying {
			m.viewport.SetContent(m.gameLog)
		}
	}

	if m.state == stateInputName || m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) start(input string) (tea.Model, tea.Cmd) {
	if input == "/load" {
		ok, err := m.engine.Load()
		if err != nil {
			m.err = err
			m.state = stateError
			return m, nil
		}
		if !ok {
			m.gameLog = gameStyle.Render("There is no saved game. Enter a name to start.") + "\n"
			return m, nil
		}
	} else {
		if input == "" {
			input = m.defaultName
		}
		if err := m.engine.NewGame(input); err != nil {
			m.err = err
			m.state = stateError
			return m, nil
		}
	}

	m.state = statePlaying
	logWidth := int(float64(m.width) * 0.65)
	room := m.engine.CurrentRoom()
	header := gameStyle.Bold(true).Render(fmt.Sprintf("Room %d: %s", room.Number, room.Name))
	m.gameLog = header + "\n" + gameStyle.Width(logWidth).Render(room.Description) + "\n"
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(logWidth, m.height-6)
	}
	m.viewport.SetContent(m.gameLog)
	m.textInput.Placeholder = "What do you do? (/help)"
	return m, nil
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateInputName:
		s = fmt.Sprintf(
			"Welcome to the Gacha Rooms!\n\n%s\n\n%s\n\n%s",
			"What is your name?",
			m.textInput.View(),
			m.gameLog,
		)

	case statePlaying:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+helpStyle.Render(helpText),
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %s\n\nPress Esc to quit.", describeError(m.err))
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	player := m.engine.Player()
	room := m.engine.CurrentRoom()
	if player == nil || room == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ROOM") + "\n")
	fmt.Fprintf(&b, "%d. %s (%.0f%%)\n\n", room.Number, room.Name, m.engine.CurrentRoomProgress()*100)

	b.WriteString(titleStyle.Render("PLAYER") + "\n")
	fmt.Fprintf(&b, "%s\nCoins: %d\nDraws: %d\n", player.Name(), player.Coins(), player.TotalDraws())
	if mach := m.engine.CurrentMachine(); mach != nil {
		fmt.Fprintf(&b, "Pull: %d coins, pity %d/%d\n", mach.Cost(), mach.Pity(), models.PityThreshold)
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("PUZZLES") + "\n")
	puzzles := m.engine.AvailablePuzzles()
	if len(puzzles) == 0 {
		b.WriteString("(all solved, /next)\n")
	}
	for i, p := range puzzles {
		fmt.Fprintf(&b, "%d. %s [%s]\n", i+1, p.Description, p.Kind())
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s (%d/%d)\n", titleStyle.Render("INVENTORY"), len(player.Inventory()), player.Capacity())
	items := player.Inventory()
	if len(items) == 0 {
		b.WriteString("(empty)\n")
	}
	for i, it := range items {
		b.WriteString(rarityStyles[it.Rarity()].Render(fmt.Sprintf("%d. %s", i+1, it)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("MAP") + "\n")
	for i, st := range m.engine.RoomStatuses() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, st)
	}

	stateWidth := int(float64(m.width) * 0.33)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func Run(eng *engine.Engine, defaultName string) error {
	p := tea.NewProgram(NewModel(eng, defaultName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
