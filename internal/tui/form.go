package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/shopadmin/internal/dashboard"
)

var fieldLabels = map[string]string{
	dashboard.FieldName:        "Name",
	dashboard.FieldPrice:       "Price",
	dashboard.FieldDescription: "Description",
	dashboard.FieldCategory:    "Category",
	dashboard.FieldOffer:       "Offer",
	dashboard.FieldImage:       "Image",
	dashboard.FieldImageOne:    "Image 1",
	dashboard.FieldImageTwo:    "Image 2",
	dashboard.FieldSizes:       "Sizes",
}

// editForm holds one text input per single-line field and a textarea for
// the sizes, in dashboard.EditFields order. The sizes textarea is always
// the last focus stop.
type editForm struct {
	id     string
	names  []string
	inputs []textinput.Model
	sizes  textarea.Model
	focus  int
}

func newEditForm(id string, buf *dashboard.EditBuffer) *editForm {
	f := &editForm{id: id}
	for _, name := range dashboard.EditFields {
		value, _ := buf.Field(name)
		if name == dashboard.FieldSizes {
			ta := textarea.New()
			ta.ShowLineNumbers = false
			ta.Placeholder = "size,stock per line"
			ta.SetHeight(4)
			ta.SetWidth(40)
			ta.SetValue(value)
			f.sizes = ta
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(value)
		f.names = append(f.names, name)
		f.inputs = append(f.inputs, ti)
	}
	f.setFocus(0)
	return f
}

func (f *editForm) stops() int {
	return len(f.inputs) + 1
}

func (f *editForm) onSizes() bool {
	return f.focus == len(f.inputs)
}

func (f *editForm) setFocus(i int) tea.Cmd {
	n := f.stops()
	f.focus = ((i % n) + n) % n

	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.sizes.Blur()

	if f.onSizes() {
		return f.sizes.Focus()
	}
	return f.inputs[f.focus].Focus()
}

func (f *editForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *editForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// update forwards msg to the focused field.
func (f *editForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.onSizes() {
		f.sizes, cmd = f.sizes.Update(msg)
		return cmd
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// values returns the form contents keyed by edit field name.
func (f *editForm) values() map[string]string {
	out := make(map[string]string, f.stops())
	for i, name := range f.names {
		out[name] = f.inputs[i].Value()
	}
	out[dashboard.FieldSizes] = f.sizes.Value()
	return out
}

func (f *editForm) view(s Styles) string {
	var b strings.Builder
	b.WriteString("Editing product " + f.id + "\n\n")
	for i, name := range f.names {
		label := s.Label
		if f.focus == i {
			label = s.Focused
		}
		b.WriteString(label.Render(fieldLabels[name]))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	label := s.Label
	if f.onSizes() {
		label = s.Focused
	}
	b.WriteString(label.Render(fieldLabels[dashboard.FieldSizes]))
	b.WriteString("\n")
	b.WriteString(f.sizes.View())
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render("tab next field • ctrl+s save • esc cancel"))
	return s.Form.Render(b.String())
}
