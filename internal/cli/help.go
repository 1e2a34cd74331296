package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/ytani/musicbox-installer/internal/branding"
)

func printHelp(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cmd.Long)
	fmt.Fprintln(out)
	fmt.Fprint(out, cmd.UsageString())
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderDiagram())
}

// renderDiagram draws the install and uninstall flow.
func renderDiagram() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	stepStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("242")).
		Italic(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1)

	wrapper := branding.WrapperName()
	pkg := branding.PackageName()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("install"))
	sb.WriteString("\n")
	for _, line := range []string{
		"pkgs.txt ──▶ sudo apt install -y ...",
		"./bin/activate, ../bin/activate, ... ──▶ VIRTUAL_ENV",
		wrapper + ".in ──▶ build/" + wrapper + " ──▶ ~/bin/" + wrapper,
		"pip install -U pip setuptools wheel",
		"pip install . (" + pkg + ")",
	} {
		sb.WriteString(stepStyle.Render("  " + line))
		sb.WriteString("\n")
	}
	sb.WriteString(noteStyle.Render("  -f skips the pip upgrade"))
	sb.WriteString("\n\n")

	sb.WriteString(titleStyle.Render("uninstall (-u)"))
	sb.WriteString("\n")
	for _, line := range []string{
		"build/installed ──▶ rm each recorded file",
		"pip uninstall -y " + pkg,
		"rm -rf build",
	} {
		sb.WriteString(stepStyle.Render("  " + line))
		sb.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}
