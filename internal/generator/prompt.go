package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/readmeforge/readmeforge/internal/github"
)

// BuildPrompt renders the analysis into the instruction the model turns
// into a README.
func BuildPrompt(a *github.Analysis) string {
	var b strings.Builder

	b.WriteString("Generate a comprehensive, professional README.md file for a GitHub repository. ")
	b.WriteString("Use standard well-aligned markdown formatting throughout the document. ")
	b.WriteString("Do not use HTML center tags or other centering methods.\n\n")

	b.WriteString("REPOSITORY INFORMATION:\n")
	fmt.Fprintf(&b, "- Name: %s\n", a.Info.Name)
	desc := a.Info.Description
	if desc == "" {
		desc = "No description provided"
	}
	fmt.Fprintf(&b, "- Description: %s\n", desc)
	fmt.Fprintf(&b, "- Owner: %s\n", a.Owner)
	fmt.Fprintf(&b, "- Created: %s\n", a.Info.CreatedAt)
	fmt.Fprintf(&b, "- Last Updated: %s\n", a.Info.UpdatedAt)
	fmt.Fprintf(&b, "- Stars: %d\n", a.Info.Stars)
	fmt.Fprintf(&b, "- Forks: %d\n", a.Info.Forks)
	fmt.Fprintf(&b, "- Open Issues: %d\n", a.Info.OpenIssues)
	license := a.Info.License
	if license == "" {
		license = "Not specified"
	}
	fmt.Fprintf(&b, "- License: %s\n", license)

	if len(a.Languages) > 0 {
		b.WriteString("\nLANGUAGES:\n")
		for _, line := range languageLines(a.Languages) {
			b.WriteString(line)
		}
	}

	if len(a.Contents) > 0 {
		b.WriteString("\nPROJECT STRUCTURE:\n")
		for _, entry := range a.Contents {
			fmt.Fprintf(&b, "- %s (%s)\n", entry.Name, entry.Type)
		}
	}

	if len(a.Contributors) > 0 {
		b.WriteString("\nCONTRIBUTORS:\n")
		for _, c := range a.Contributors {
			fmt.Fprintf(&b, "- %s (%d contributions)\n", c.Login, c.Contributions)
		}
	}

	if a.ExistingReadme != "" {
		b.WriteString("\nEXISTING README (for reference, improve upon it):\n")
		b.WriteString(truncateString(a.ExistingReadme, 4000))
		b.WriteString("\n")
	}

	b.WriteString("\nWrite the complete README.md content now. Include sections for overview, ")
	b.WriteString("features, installation, usage, contributing, and license where applicable.\n")

	return b.String()
}

func languageLines(languages map[string]int) []string {
	total := 0
	for _, bytes := range languages {
		total += bytes
	}

	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	// Largest share first, ties broken by name for stable output.
	sort.Slice(names, func(i, j int) bool {
		if languages[names[i]] != languages[names[j]] {
			return languages[names[i]] > languages[names[j]]
		}
		return names[i] < names[j]
	})

	lines := make([]string, 0, len(names))
	for _, name := range names {
		pct := 0.0
		if total > 0 {
			pct = float64(languages[name]) / float64(total) * 100
		}
		lines = append(lines, fmt.Sprintf("- %s: %.1f%%\n", name, pct))
	}
	return lines
}

func truncateString(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
