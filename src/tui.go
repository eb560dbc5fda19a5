package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// --- Enums & Types ---

type sessionState int

const (
	stateDropZone sessionState = iota
	stateFilePicker
	stateBrowsing
	stateAlert
)

type (
	deckLoadedMsg struct {
		records []Record
		src     Source
	}
	deckRestoredMsg struct{ records []Record }
	storeResultMsg  struct {
		op  string
		err error
	}
	resetStatusMsg struct{}
	errMsg         struct{ err error }
)

func (e errMsg) Error() string { return e.err.Error() }

// --- Commands ---

func importCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		records, err := Ingest(src)
		if err != nil {
			return errMsg{err}
		}
		return deckLoadedMsg{records: records, src: src}
	}
}

func restoreCmd(store Store) tea.Cmd {
	return func() tea.Msg {
		records, err := store.Load(deckKey)
		if err != nil {
			return storeResultMsg{op: "restore", err: err}
		}
		return deckRestoredMsg{records: records}
	}
}

func saveCmd(store Store, records []Record) tea.Cmd {
	return func() tea.Msg {
		return storeResultMsg{op: "save", err: store.Save(deckKey, records)}
	}
}

func clearCmd(store Store) tea.Cmd {
	return func() tea.Msg {
		return storeResultMsg{op: "clear", err: store.Clear(deckKey)}
	}
}

func resetStatusCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return resetStatusMsg{}
	})
}

// --- Styles ---
var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dropStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 4)
	dropHotStyle  = dropStyle.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 6).Width(48).Align(lipgloss.Center)
	kanjiStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	phoneticStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 2)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	alertStyle    = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("196")).Padding(1, 3)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// --- Model ---

type model struct {
	state     sessionState
	prevState sessionState
	alert     string

	status        string
	defaultStatus string

	deck    Deck
	loading bool

	// UI Components
	dropInput  textinput.Model
	filepicker filepicker.Model
	help       help.Model
	keys       keyMap

	store       Store
	logger      *zap.Logger
	initialFile string
}

func initialModel(cfg *Config, store Store, logger *zap.Logger, initialFile string) model {
	defaultStatus := "enter: import | ctrl+o: browse | ctrl+c: quit"
	m := model{
		state:         stateDropZone,
		status:        defaultStatus,
		defaultStatus: defaultStatus,
		help:          help.New(),
		keys:          keys,
		store:         store,
		logger:        logger,
		initialFile:   initialFile,
		loading:       initialFile != "",
	}

	m.dropInput = textinput.New()
	m.dropInput.Placeholder = "drop a .xlsx, .xls or .csv file here"
	m.dropInput.CharLimit = 1024
	m.dropInput.Width = 60
	m.dropInput.Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx", ".xls", ".csv"}
	fp.CurrentDirectory, _ = filepath.Abs(cfg.StartDir)
	m.filepicker = fp

	return m
}

func (m model) Init() tea.Cmd {
	load := restoreCmd(m.store)
	if m.initialFile != "" {
		load = tea.Sequence(load, importCmd(sourceFromPath(m.initialFile)))
	}
	return tea.Batch(textinput.Blink, m.filepicker.Init(), load)
}

// --- Update ---

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		_, v := docStyle.GetFrameSize()
		m.filepicker.Height = max(msg.Height-v-4, 1)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateAlert:
			// Any key dismisses the alert.
			m.state = m.prevState
			m.alert = ""
			return m, nil
		case stateFilePicker:
			return updateFilePicker(msg, m)
		case stateBrowsing:
			return updateBrowsing(msg, m)
		default:
			return updateDropZone(msg, m)
		}

	case resetStatusMsg:
		m.status = m.defaultStatus
		return m, nil

	case deckLoadedMsg:
		m.loading = false
		m.deck.Load(msg.records)
		m.logger.Info("deck imported",
			zap.String("file", msg.src.Name),
			zap.String("mime", msg.src.MIME),
			zap.Int("cards", m.deck.Len()),
		)
		if m.deck.Empty() {
			m.state = stateDropZone
			m.status = fmt.Sprintf("No cards found in '%s'", msg.src.Name)
			return m, resetStatusCmd()
		}
		m.state = stateBrowsing
		m.dropInput.Reset()
		m.status = fmt.Sprintf("Loaded %d cards from '%s'", m.deck.Len(), msg.src.Name)
		return m, tea.Batch(saveCmd(m.store, m.deck.Cards()), resetStatusCmd())

	case deckRestoredMsg:
		if len(msg.records) == 0 || !m.deck.Empty() {
			return m, nil
		}
		m.deck.Load(msg.records)
		m.state = stateBrowsing
		m.logger.Info("deck restored", zap.Int("cards", m.deck.Len()))
		return m, nil

	case storeResultMsg:
		if msg.err != nil {
			m.logger.Error("store operation failed", zap.String("op", msg.op), zap.Error(msg.err))
			m.status = fmt.Sprintf("Could not %s deck: %v", msg.op, msg.err)
			return m, resetStatusCmd()
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.logger.Warn("import failed", zap.Error(msg.err))
		return m.showAlert(alertText(msg.err)), nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)
	cmds = append(cmds, cmd)
	if m.state == stateDropZone {
		m.dropInput, cmd = m.dropInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func updateDropZone(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := normalizeDroppedPath(m.dropInput.Value())
		if path == "" {
			return m, nil
		}
		return m.startImport(path)
	case "ctrl+o":
		return m.openFilePicker()
	case "esc":
		m.dropInput.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.dropInput, cmd = m.dropInput.Update(msg)
	return m, cmd
}

func updateFilePicker(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.state = m.prevState
		m.status = "File selection cancelled."
		return m, resetStatusCmd()
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)
	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.state = m.prevState
		return m.startImport(path)
	}
	if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
		m.state = m.prevState
		err := fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
		return m.showAlert(alertText(err)), nil
	}
	return m, cmd
}

func updateBrowsing(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.deck.Previous()
	case key.Matches(msg, m.keys.Next):
		m.deck.Next()
	case key.Matches(msg, m.keys.Reveal):
		m.deck.Toggle()
	case key.Matches(msg, m.keys.Hide):
		m.deck.Hide()
	case key.Matches(msg, m.keys.Open):
		return m.openFilePicker()
	case key.Matches(msg, m.keys.Clear):
		m.deck.Clear()
		m.state = stateDropZone
		m.status = "All cards cleared."
		m.logger.Info("deck cleared")
		return m, tea.Batch(clearCmd(m.store), resetStatusCmd())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// startImport issues a read unless one is already running.
func (m model) startImport(path string) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.status = "Loading..."
	src := sourceFromPath(path)
	m.logger.Debug("import requested", zap.String("path", path), zap.String("mime", src.MIME))
	return m, importCmd(src)
}

func (m model) openFilePicker() (tea.Model, tea.Cmd) {
	m.prevState = m.state
	m.state = stateFilePicker
	m.status = "Select a file to load."
	return m, m.filepicker.Init()
}

func (m model) showAlert(text string) model {
	if m.state != stateAlert {
		m.prevState = m.state
	}
	m.state = stateAlert
	m.alert = text
	return m
}

func alertText(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "Please choose an Excel (.xlsx, .xls) or CSV (.csv) file."
	case errors.Is(err, ErrUnreadable):
		return fmt.Sprintf("Could not read the file. Please check its format.\n\n%v", err)
	default:
		return err.Error()
	}
}

// --- View ---

func (m model) View() string {
	switch m.state {
	case stateAlert:
		return docStyle.Render(alertStyle.Render(m.alert) + "\n\n" + helpStyle.Render("press any key"))
	case stateFilePicker:
		return docStyle.Render(titleStyle.Render("Import cards (.xlsx .xls .csv)") + "\n\n" +
			m.filepicker.View() + "\n" + helpStyle.Render("enter: select | esc: cancel"))
	case stateBrowsing:
		return docStyle.Render(m.browsingView())
	default:
		return docStyle.Render(m.dropZoneView())
	}
}

func (m model) dropZoneView() string {
	box := dropStyle
	heading := "Drop a CSV or Excel file here"
	// A pasted path means something was dropped on the terminal.
	if m.dropInput.Value() != "" {
		box = dropHotStyle
		heading = "Press enter to import"
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		heading,
		mutedStyle.Render("or press ctrl+o to browse"),
		"",
		mutedStyle.Render("Columns: kanji, phonetic, meaning, example"),
		"",
		m.dropInput.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Kanji Flashcards"),
		"",
		box.Render(body),
		"",
		helpStyle.Render(m.status),
	)
}

func (m model) browsingView() string {
	card, _ := m.deck.Current()

	lines := []string{kanjiStyle.Render(card.Kanji), ""}
	if !m.deck.Revealed() {
		lines = append(lines, mutedStyle.Render("space: show meaning"))
	} else {
		if card.Phonetic != "" {
			lines = append(lines, phoneticStyle.Render(card.Phonetic), "")
		}
		lines = append(lines, labelStyle.Render("Meaning"), card.Meaning)
		if card.Example != "" {
			lines = append(lines, "", labelStyle.Render("Example"), card.Example)
		}
	}

	prev, next := "← prev", "next →"
	if m.deck.AtStart() {
		prev = disabledStyle.Render(prev)
	}
	if m.deck.AtEnd() {
		next = disabledStyle.Render(next)
	}
	nav := strings.Join([]string{prev, "x: clear all", next}, "    ")

	// The default status only describes the drop zone.
	status := m.status
	if status == m.defaultStatus {
		status = ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Card %d / %d", m.deck.Cursor()+1, m.deck.Len())),
		"",
		cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...)),
		"",
		nav,
		"",
		helpStyle.Render(status),
		m.help.View(m.keys),
	)
}
