package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/fingerprint"
	"github.com/billfold/billfold/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateParsing
	importStateReview
	importStateEdit
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service
	userID        uuid.UUID

	state      importState
	filePicker filepicker.Model

	candidates []fingerprint.Candidate
	duplicates map[int]bool
	selected   map[int]bool
	reviewList list.Model

	editForm  *huh.Form
	editIndex int

	status string
	err    error

	// Form bindings
	formAmount   string
	formCategory string
	formNote     string
	formDate     string
}

func NewImportModel(impSvc *importer.Service, userID uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		userID:        userID,
		filePicker:    fp,
		duplicates:    make(map[int]bool),
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateReview:
		return "Space: toggle | e: edit | a: all | n: new only | Enter: import | Esc: cancel"
	case importStateEdit:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: select file"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateReview {
			return m.updateReview(msg)
		}

	case previewMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.preview.New) == 0 && len(msg.preview.Duplicates) == 0 {
			m.state = importStateResult
			m.status = "No transactions found in the statement."

			return m, nil
		}

		// New rows are pre-selected; duplicates must be opted back in.
		m.candidates = nil
		m.duplicates = make(map[int]bool)
		m.selected = make(map[int]bool)

		for _, c := range msg.preview.New {
			m.selected[len(m.candidates)] = true
			m.candidates = append(m.candidates, c)
		}

		for _, c := range msg.preview.Duplicates {
			m.duplicates[len(m.candidates)] = true
			m.candidates = append(m.candidates, c)
		}

		items := make([]list.Item, len(m.candidates))
		for i, c := range m.candidates {
			items[i] = candidateItem{candidate: c, index: i}
		}

		delegate := candidateDelegate{selected: &m.selected, duplicates: &m.duplicates}
		m.reviewList = list.New(items, delegate, 80, 20)
		m.reviewList.Title = fmt.Sprintf("Review Import (%d new, %d duplicates)",
			len(msg.preview.New), len(msg.preview.Duplicates))
		m.reviewList.SetShowStatusBar(false)
		m.reviewList.SetFilteringEnabled(false)
		m.reviewList.SetShowHelp(false)

		m.state = importStateReview

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d expenses.", msg.count)

		return m, nil
	}

	if m.state == importStateEdit {
		return m.updateEdit(msg)
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateParsing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateReview:
		m.state = importStateFilePick
		m.candidates = nil
		m.duplicates = make(map[int]bool)
		m.selected = make(map[int]bool)

		return m, m.filePicker.Init()
	case importStateEdit:
		m.state = importStateReview
		m.editForm = nil

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.reviewList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.candidates {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.candidates {
			m.selected[i] = !m.duplicates[i]
		}

		return m, nil
	case "e":
		return m.enterEditMode()
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.reviewList, cmd = m.reviewList.Update(msg)

	return m, cmd
}

func (m ImportModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.reviewList.Index()
	if idx < 0 || idx >= len(m.candidates) {
		return m, nil
	}

	c := m.candidates[idx]
	m.editIndex = idx
	m.formAmount = FormatAmount(c.AmountCents)
	m.formCategory = c.Category
	m.formNote = c.Note
	m.formDate = FormatDate(c.Date)

	categoryOptions := make([]huh.Option[string], 0, len(expense.Categories()))
	for _, cat := range expense.Categories() {
		categoryOptions = append(categoryOptions, huh.NewOption(string(cat), string(cat)))
	}

	m.editForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.formAmount).
				Validate(validateAmount),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions...).
				Value(&m.formCategory),

			huh.NewInput().
				Key("note").
				Title("Note").
				Value(&m.formNote),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(validateDate),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = importStateEdit

	return m, m.editForm.Init()
}

func (m ImportModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.editForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.editForm = f
	}

	if m.editForm.State != huh.StateCompleted {
		return m, cmd
	}

	// The fingerprint is recomputed from the edited fields at import
	// time, so an edited duplicate can come back as new.
	c := &m.candidates[m.editIndex]

	if cents, err := parseAmountInput(m.formAmount); err == nil {
		c.AmountCents = cents
	}

	if date, err := time.Parse(time.DateOnly, strings.TrimSpace(m.formDate)); err == nil {
		c.Date = date
	}

	c.Note = m.formNote
	c.Category = m.formCategory
	c.Refingerprint()

	m.selected[m.editIndex] = true
	m.state = importStateReview
	m.editForm = nil

	items := make([]list.Item, len(m.candidates))
	for i, cand := range m.candidates {
		items[i] = candidateItem{candidate: cand, index: i}
	}

	return m, m.reviewList.SetItems(items)
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a statement file (CSV):\n\n%s", m.filePicker.View()),
		)
	case importStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReview:
		return lipgloss.NewStyle().Padding(1).Render(m.reviewList.View())
	case importStateEdit:
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Edit Candidate\n\n" + m.editForm.View())

		return lipgloss.NewStyle().Padding(1).Render(panel)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
			"\n\n(Esc to go back)",
	)
}

// Messages

type previewMsg struct {
	preview importer.Preview
	err     error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		preview, err := m.importService.Preview(ctx, m.userID, f)
		if err != nil {
			return previewMsg{err: err}
		}

		return previewMsg{preview: preview}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	candidates := m.candidates
	selected := m.selected

	return func() tea.Msg {
		var picked []fingerprint.Candidate
		for i, c := range candidates {
			if selected[i] {
				picked = append(picked, c)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		count, err := m.importService.Confirm(ctx, m.userID, picked)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: count}
	}
}

// Review list item

type candidateItem struct {
	candidate fingerprint.Candidate
	index     int
}

func (i candidateItem) Title() string       { return "" }
func (i candidateItem) Description() string { return "" }
func (i candidateItem) FilterValue() string { return "" }

// Review list delegate

type candidateDelegate struct {
	selected   *map[int]bool
	duplicates *map[int]bool
}

func (d candidateDelegate) Height() int                             { return 2 }
func (d candidateDelegate) Spacing() int                            { return 0 }
func (d candidateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(candidateItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	tag := ""
	if (*d.duplicates)[item.index] {
		tag = "  (duplicate)"
	}

	c := item.candidate

	line1 := fmt.Sprintf("%s%s %s  %s  %s%s",
		cursor, checkbox,
		FormatDate(c.Date),
		FormatAmount(c.AmountCents),
		c.Note,
		tag,
	)

	line2 := fmt.Sprintf("      Category: %s", c.Category)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
