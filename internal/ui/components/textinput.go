package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/devpath/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with DevPath styling. NumericOnly
// drops any non-digit keypress, which the weekly-hours prompt relies on.
type TextInput struct {
	Model       textinput.Model
	Label       string
	NumericOnly bool
	err         string
}

// NewTextInput creates a focused text input.
func NewTextInput(label, placeholder string, numericOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Label: label, NumericOnly: numericOnly}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return t, nil
			}
		}
	}
	t.err = ""

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label, the input and any validation message.
func (t TextInput) View() string {
	var b strings.Builder
	if t.Label != "" {
		b.WriteString(theme.Title.Render(t.Label) + "\n\n")
	}
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1).
		Render(t.Model.View()))
	if t.err != "" {
		b.WriteString("\n" + theme.ErrorText.Render(t.err))
	}
	return b.String()
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// NumericValue returns the input value as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(t.Value())
}

// SetError shows msg under the input until the next keypress.
func (t *TextInput) SetError(msg string) {
	t.err = msg
}
