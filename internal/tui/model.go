// Package tui is a terminal front end for the admin dashboard. It drives the
// same dashboard.Controller as the web UI and redraws whenever the store
// changes.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/shopadmin/internal/dashboard"
	"github.com/yourusername/shopadmin/internal/store"
	"github.com/yourusername/shopadmin/pkg/catalog"
)

// stateChangedMsg is delivered after the store dispatched an action.
type stateChangedMsg struct{}

// opDoneMsg reports the end of a blocking controller call.
type opDoneMsg struct {
	op  string
	err error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx         context.Context
	ctrl        *dashboard.Controller
	changes     chan struct{}
	unsubscribe func()

	view    dashboard.ViewModel
	table   table.Model
	spinner spinner.Model
	form    *editForm
	styles  Styles
	status  string
	width   int
}

// New creates the model and subscribes to the controller's store. The
// subscription ends when the model quits.
func New(ctx context.Context, ctrl *dashboard.Controller) Model {
	changes := make(chan struct{}, 1)
	unsubscribe := ctrl.Store().Subscribe(func(store.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Price", Width: 10},
			{Title: "Stock", Width: 7},
			{Title: "Offer", Width: 7},
			{Title: "Sizes", Width: 30},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithWidth(96),
	)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:         ctx,
		ctrl:        ctrl,
		changes:     changes,
		unsubscribe: unsubscribe,
		table:       t,
		spinner:     sp,
		styles:      DefaultStyles(),
	}
	m.refresh()
	return m
}

// Init starts the spinner, the store subscription and the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForChange(), m.mount())
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return stateChangedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) mount() tea.Cmd {
	return m.run("mount", m.ctrl.Mount)
}

// run executes a blocking controller call off the update loop.
func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) runBool(op string, fn func(context.Context) bool) tea.Cmd {
	return m.run(op, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if h := msg.Height - 10; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateChangedMsg:
		m.refresh()
		return m, m.waitForChange()

	case opDoneMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch {
		case m.form != nil:
			return m.updateForm(msg)
		case m.view.ConfirmVisible:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "left", "h":
		return m, m.runBool("previous page", m.ctrl.PrevPage)
	case "right", "l":
		return m, m.runBool("next page", m.ctrl.NextPage)
	case "up", "k":
		m.table.MoveUp(1)
	case "down", "j":
		m.table.MoveDown(1)
	case "r":
		return m, m.run("refresh", m.ctrl.Refresh)
	case "d":
		if p, ok := m.selected(); ok {
			m.ctrl.RequestDelete(p.ID)
			m.refresh()
		}
	case "e":
		if p, ok := m.selected(); ok {
			m.ctrl.StartEdit(p)
			m.refresh()
			if m.form != nil {
				return m, m.form.setFocus(0)
			}
		}
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.run("delete", m.ctrl.ConfirmDelete)
	case "n", "N", "esc":
		m.ctrl.CancelDelete()
		m.refresh()
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CancelEdit()
		m.status = ""
		m.refresh()
		return m, nil
	case "tab":
		return m, m.form.next()
	case "shift+tab":
		return m, m.form.prev()
	case "enter":
		if !m.form.onSizes() {
			return m, m.form.next()
		}
	case "ctrl+s":
		return m.submit()
	}
	return m, m.form.update(msg)
}

// submit copies the form into the edit buffer and sends the update.
func (m Model) submit() (tea.Model, tea.Cmd) {
	values := m.form.values()
	for _, name := range dashboard.EditFields {
		if err := m.ctrl.UpdateEditField(name, values[name]); err != nil {
			m.status = fmt.Sprintf("invalid %s: %v", fieldLabels[name], err)
			return m, nil
		}
	}
	id := m.form.id
	return m, m.run("save", func(ctx context.Context) error {
		return m.ctrl.SubmitEdit(ctx, id)
	})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.unsubscribe()
	return m, tea.Quit
}

// refresh pulls a new view model and syncs the table and the form with it.
func (m *Model) refresh() {
	m.view = m.ctrl.View()

	rows := make([]table.Row, 0, len(m.view.Rows))
	for _, r := range m.view.Rows {
		rows = append(rows, table.Row{
			r.Product.Name,
			"$" + strconv.FormatFloat(r.Product.Price, 'f', 2, 64),
			strconv.Itoa(r.TotalStock),
			offerText(r.Product.Offer),
			sizeSummary(r.Product.Sizes),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}

	switch {
	case m.view.Edit == nil:
		m.form = nil
	case m.form == nil || m.form.id != m.view.EditingID:
		m.form = newEditForm(m.view.EditingID, m.view.Edit)
	}
}

func (m Model) selected() (catalog.Product, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Rows) {
		return catalog.Product{}, false
	}
	return m.view.Rows[i].Product, true
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Products"))
	b.WriteString("\n\n")

	switch {
	case m.view.State == dashboard.ViewError:
		b.WriteString(m.styles.Error.Render("Error: " + m.view.Error))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("press r to retry"))
	case len(m.view.Rows) > 0:
		b.WriteString(m.table.View())
	case m.view.State == dashboard.ViewList:
		b.WriteString(m.styles.Muted.Render("No products found."))
	default:
		b.WriteString(m.spinner.View() + " Loading products...")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.footer()))
	b.WriteString("\n")

	if m.view.ConfirmVisible {
		b.WriteString("\n")
		b.WriteString(m.styles.Prompt.Render("Delete this product? (y/n)"))
		b.WriteString("\n")
	}
	if m.form != nil {
		b.WriteString("\n")
		b.WriteString(m.form.view(m.styles))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("←/→ page • ↑/↓ select • e edit • d delete • r refresh • q quit"))
	return lipgloss.NewStyle().MaxWidth(maxWidth(m.width)).Render(b.String())
}

func (m Model) footer() string {
	parts := []string{fmt.Sprintf("Page %d of %d", m.view.Page, max(m.view.TotalPages, 1))}
	if len(m.view.Filter.Categories) > 0 {
		parts = append(parts, "categories: "+strings.Join(m.view.Filter.Categories, ", "))
	}
	if len(m.view.Filter.Sizes) > 0 {
		parts = append(parts, "sizes: "+strings.Join(m.view.Filter.Sizes, ", "))
	}
	if m.view.State == dashboard.ViewLoading && len(m.view.Rows) > 0 {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ·  ")
}

func offerText(o catalog.Offer) string {
	if o == "" {
		return "-"
	}
	return o.String()
}

func sizeSummary(sizes []catalog.SizeStock) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, fmt.Sprintf("%s:%d", s.Size, s.Stock))
	}
	return strings.Join(parts, " ")
}

func maxWidth(w int) int {
	if w <= 0 {
		return 120
	}
	return w
}

// Run starts the dashboard on the terminal and blocks until the user quits
// or ctx is done.
func Run(ctx context.Context, ctrl *dashboard.Controller) error {
	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
