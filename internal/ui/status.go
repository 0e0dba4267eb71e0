package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	successColorConstant = lipgloss.Color("2")
	warningColorConstant = lipgloss.Color("3")
	errorColorConstant   = lipgloss.Color("1")
	infoColorConstant    = lipgloss.Color("6")
	statusLineTemplate   = "%s\n"
)

type statusKind int

const (
	statusKindSuccess statusKind = iota
	statusKindWarning
	statusKindError
	statusKindInfo
)

// StatusPrinter writes colored status lines for interactive users.
//
// Styles are bound to a renderer created for the destination writer, so color
// support is detected when the printer is built and plain writers such as
// buffers and pipes receive unstyled text.
type StatusPrinter struct {
	writer       io.Writer
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
}

// NewStatusPrinter constructs a StatusPrinter writing to the provided writer.
func NewStatusPrinter(writer io.Writer) *StatusPrinter {
	if writer == nil {
		writer = io.Discard
	}
	renderer := lipgloss.NewRenderer(writer)
	return &StatusPrinter{
		writer:       writer,
		successStyle: renderer.NewStyle().Foreground(successColorConstant),
		warningStyle: renderer.NewStyle().Foreground(warningColorConstant),
		errorStyle:   renderer.NewStyle().Foreground(errorColorConstant).Bold(true),
		infoStyle:    renderer.NewStyle().Foreground(infoColorConstant),
	}
}

// Successf prints a success line.
func (printer *StatusPrinter) Successf(template string, arguments ...any) {
	printer.print(statusKindSuccess, template, arguments...)
}

// Warningf prints a warning line.
func (printer *StatusPrinter) Warningf(template string, arguments ...any) {
	printer.print(statusKindWarning, template, arguments...)
}

// Errorf prints an error line.
func (printer *StatusPrinter) Errorf(template string, arguments ...any) {
	printer.print(statusKindError, template, arguments...)
}

// Infof prints an informational line.
func (printer *StatusPrinter) Infof(template string, arguments ...any) {
	printer.print(statusKindInfo, template, arguments...)
}

// Writer exposes the destination writer for raw passthrough output.
func (printer *StatusPrinter) Writer() io.Writer {
	if printer == nil {
		return io.Discard
	}
	return printer.writer
}

func (printer *StatusPrinter) print(kind statusKind, template string, arguments ...any) {
	if printer == nil {
		return
	}
	message := fmt.Sprintf(template, arguments...)
	fmt.Fprintf(printer.writer, statusLineTemplate, printer.styleFor(kind).Render(message))
}

func (printer *StatusPrinter) styleFor(kind statusKind) lipgloss.Style {
	switch kind {
	case statusKindSuccess:
		return printer.successStyle
	case statusKindWarning:
		return printer.warningStyle
	case statusKindError:
		return printer.errorStyle
	default:
		return printer.infoStyle
	}
}
