package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#FF9900")).
	Padding(0, 3).
	MarginBottom(1).
	Align(lipgloss.Center).
	Border(lipgloss.RoundedBorder())

// printHeader writes the banner to stderr so stdout stays pipeable.
func printHeader(cmd *cobra.Command, title string) {
	fmt.Fprintln(cmd.ErrOrStderr(), headerStyle.Render("awsutils - "+title))
}
