package version

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/thushan/ladder/theme"
)

// Set at build time through -ldflags "-X github.com/thushan/ladder/internal/version.Version=..."
var (
	Name        = "ladder"
	Authors     = "Thushan Fernando"
	Description = "Priority-based request escalation"
	Version     = "v0.0.1"
	Commit      = "none"
	Date        = "nowish"
	User        = "local"
)

const (
	GithubHomeText  = "github.com/thushan/ladder"
	GithubHomeUri   = "https://github.com/thushan/ladder"
	GithubLatestUri = "https://github.com/thushan/ladder/releases/latest"
)

type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	User      string `json:"user"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		User:      User,
		GoVersion: runtime.Version(),
	}
}

func PrintVersionInfo(w io.Writer, extendedInfo bool) {
	githubUri := theme.Hyperlink(GithubHomeUri, GithubHomeText)
	latestUri := theme.Hyperlink(GithubLatestUri, Version)

	var b strings.Builder

	b.WriteString(theme.ColourSplash(`
╔─────────────────────────────────────────────────────╗
│  ██╗      █████╗ ██████╗ ██████╗ ███████╗██████╗   ╠╣
│  ██║     ██╔══██╗██╔══██╗██╔══██╗██╔════╝██╔══██╗  ╠╣
│  ██║     ███████║██║  ██║██║  ██║█████╗  ██████╔╝  ╠╣
│  ██║     ██╔══██║██║  ██║██║  ██║██╔══╝  ██╔══██╗  ╠╣
│  ███████╗██║  ██║██████╔╝██████╔╝███████╗██║  ██║  ╠╣
│  ╚══════╝╚═╝  ╚═╝╚═════╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝  ╠╣` + "\n"))

	b.WriteString(theme.ColourSplash("│  "))
	b.WriteString(theme.StyleUrl(githubUri))
	b.WriteString(" ")
	b.WriteString(theme.ColourVersion(latestUri))
	b.WriteString("\n")
	b.WriteString(theme.ColourSplash("╚─────────────────────────────────────────────────────╝"))
	b.WriteString("\n")

	if extendedInfo {
		b.WriteString(fmt.Sprintf(" Commit: %s\n", Commit))
		b.WriteString(fmt.Sprintf("  Built: %s\n", Date))
		b.WriteString(fmt.Sprintf("  Using: %s\n", User))
		b.WriteString(fmt.Sprintf("     Go: %s\n", runtime.Version()))
	}

	fmt.Fprint(w, b.String())
}
