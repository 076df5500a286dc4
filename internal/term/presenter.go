// Package term implements the presentation adapter for a terminal: styled
// confirmation prompts and notifications on stdin/stdout.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/capkit/capflow/internal/flow"
	"github.com/capkit/capflow/internal/models"
)

// Styles contains the lipgloss styles used by the presenter.
type Styles struct {
	Dialog    lipgloss.Style
	Prompt    lipgloss.Style
	Toast     lipgloss.Style
	Satisfied lipgloss.Style
	Declined  lipgloss.Style
	Muted     lipgloss.Style
}

// DefaultStyles builds the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Dialog: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Toast:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Satisfied: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Declined:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Presenter shows confirmation dialogs and notifications on a terminal.
// In non-interactive mode every confirmation is accepted without
// prompting.
type Presenter struct {
	in             *bufio.Reader
	out            io.Writer
	styles         Styles
	nonInteractive bool
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithIO overrides the presenter's input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(p *Presenter) {
		p.in = bufio.NewReader(in)
		p.out = out
	}
}

// WithNonInteractive makes every confirmation auto-accept.
func WithNonInteractive(on bool) Option {
	return func(p *Presenter) {
		p.nonInteractive = on
	}
}

// WithStyles overrides the color scheme.
func WithStyles(styles Styles) Option {
	return func(p *Presenter) {
		p.styles = styles
	}
}

// NewPresenter creates a Presenter on stdin/stdout.
func NewPresenter(opts ...Option) *Presenter {
	p := &Presenter{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ShowConfirmation renders the dialog and reads the user's choice. An
// empty decline label renders an informational prompt that always
// accepts.
func (p *Presenter) ShowConfirmation(text string, opts flow.ConfirmOptions) bool {
	fmt.Fprintln(p.out, p.styles.Dialog.Render(text))

	if opts.DeclineLabel == "" {
		fmt.Fprintln(p.out, p.styles.Muted.Render(fmt.Sprintf("[%s]", opts.AcceptLabel)))
		if !p.nonInteractive {
			_, _ = p.in.ReadString('\n')
		}
		return true
	}

	if p.nonInteractive {
		fmt.Fprintln(p.out, p.styles.Muted.Render(fmt.Sprintf("auto-accepting: %s", opts.AcceptLabel)))
		return true
	}

	prompt := fmt.Sprintf("%s [y] / %s [n]: ", opts.AcceptLabel, opts.DeclineLabel)
	for {
		fmt.Fprint(p.out, p.styles.Prompt.Render(prompt))
		line, err := p.in.ReadString('\n')
		if err != nil {
			// Input gone; treat as a decline rather than loop forever.
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}

// ShowNotification renders a toast-style line.
func (p *Presenter) ShowNotification(text string) {
	fmt.Fprintln(p.out, p.styles.Toast.Render("* "+text))
}

// StageBadge renders a stage with its status, colored by outcome.
func (p *Presenter) StageBadge(stage models.Stage, status models.Status) string {
	label := fmt.Sprintf("%-10s %s", stage, statusLabel(status))
	switch {
	case status.IsSatisfied():
		return p.styles.Satisfied.Render(label)
	case status.IsDeclined():
		return p.styles.Declined.Render(label)
	default:
		return p.styles.Muted.Render(label)
	}
}

func statusLabel(status models.Status) string {
	value := strings.TrimSpace(strings.ReplaceAll(string(status), "_", " "))
	if value == "" {
		return "unknown"
	}
	return value
}
