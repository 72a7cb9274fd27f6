// Package output prints styled terminal messages for the CLI.
//
// Commands route all user-facing status through here so the tool
// speaks with one voice. Styling goes through lipgloss; callers never
// touch colors directly.
package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
)

// SetVerbose enables or disables verbose output.
// The CLI calls this when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// Success prints a green completion message.
func Success(format string, args ...any) {
	fmt.Println(successStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// Error prints a red failure message to stderr.
func Error(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warn prints a yellow warning message to stderr. Use this for
// diagnostics the user should see without stopping the run.
func Warn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// Info prints a cyan status message.
func Info(format string, args ...any) {
	fmt.Println(infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Step prints an indented gray sub-item.
//
// Example:
//
//	output.Step("nodes: 5")
//	output.Step("edges: 4")
func Step(format string, args ...any) {
	fmt.Println(stepStyle.Render("   " + fmt.Sprintf(format, args...)))
}

// Verbose prints a gray debug message only when verbose mode is on.
func Verbose(format string, args ...any) {
	if verboseMode {
		fmt.Println(stepStyle.Render("» " + fmt.Sprintf(format, args...)))
	}
}
