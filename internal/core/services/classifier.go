package services

import (
	"sort"
	"strings"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
)

// Keyword tables scanned against repository files.
var (
	documentationKeywords = []string{"Confluence", "MKDocs", "Sphinx", "ReadTheDocs"}

	cloudKeywords = []string{"AWS", "Azure", "GCP"}

	frameworkKeywords = []string{
		"React",
		"Angular",
		"Vue",
		"Django",
		"Streamlit",
		"Flask",
		"Spring",
		"Hibernate",
		"Express",
		"Next.js",
		"Play",
		"Akka",
		"Lagom",
	}
)

// iacByLanguage maps declarative infrastructure formats, reported by the API
// as languages, to their IaC tag.
var iacByLanguage = map[string]string{
	"HCL":        "Terraform",
	"Dockerfile": "Docker",
}

// DefaultTreeScanDepth is how many tree levels the classifier inspects:
// the root entries plus one nested level for the named directories.
const DefaultTreeScanDepth = 2

// CI/CD signal locations. The scan is intentionally shallow and hardcoded
// to these two directories.
const (
	githubDirName    = ".github"
	workflowsDirName = "workflows"
	ciDirName        = "ci"
	pipelineFileName = "pipeline.yml"
)

// treeSignals are the technology signals read from the file-tree snapshot.
type treeSignals struct {
	Docs       []string
	Cloud      []string
	Frameworks []string
	CICD       []string
}

// findKeywords returns the keywords present in content, case-insensitively,
// each at most once, in table order. Empty content yields no keywords.
func findKeywords(content string, keywords []string) []string {
	found := []string{}
	if content == "" {
		return found
	}

	lowered := strings.ToLower(content)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			found = append(found, keyword)
		}
	}
	return found
}

// classifyTree scans the shallow tree snapshot for documentation, cloud,
// framework and CI/CD signals. Depth 1 looks at root entries only; the
// default depth 2 additionally descends into the .github and ci directories.
func classifyTree(tree *domain.TreeObject, depth int) treeSignals {
	signals := treeSignals{
		Docs:       []string{},
		Cloud:      []string{},
		Frameworks: []string{},
		CICD:       []string{},
	}
	if depth <= 0 {
		depth = DefaultTreeScanDepth
	}
	if tree == nil {
		return signals
	}

	var readme, pyproject, packageJSON string
	for _, entry := range tree.Entries {
		switch {
		case strings.EqualFold(entry.Name, "readme.md"):
			readme = entryText(entry)
		case strings.EqualFold(entry.Name, "pyproject.toml"):
			pyproject = entryText(entry)
		case strings.EqualFold(entry.Name, "package.json"):
			packageJSON = entryText(entry)
		case entry.Name == githubDirName && depth >= 2:
			if hasChildEntry(entry, workflowsDirName, false) {
				signals.CICD = append(signals.CICD, "GitHub Actions")
			}
		case entry.Name == ciDirName && depth >= 2:
			if hasChildEntry(entry, pipelineFileName, true) {
				signals.CICD = append(signals.CICD, "Concourse")
			}
		}
	}

	signals.Docs = findKeywords(readme, documentationKeywords)
	signals.Cloud = findKeywords(readme, cloudKeywords)
	signals.Frameworks = mergeFrameworks(
		findKeywords(pyproject, frameworkKeywords),
		findKeywords(packageJSON, frameworkKeywords),
	)

	return signals
}

// entryText returns the blob text behind a tree entry, or "".
func entryText(entry domain.TreeEntry) string {
	if entry.Object != nil && entry.Object.Text != nil {
		return *entry.Object.Text
	}
	return ""
}

// hasChildEntry reports whether a directory entry contains a child with the
// given name; substring match when partial is true.
func hasChildEntry(entry domain.TreeEntry, name string, partial bool) bool {
	if entry.Object == nil {
		return false
	}
	for _, child := range entry.Object.Entries {
		if partial && strings.Contains(child.Name, name) {
			return true
		}
		if !partial && child.Name == name {
			return true
		}
	}
	return false
}

// mergeFrameworks unions the per-manifest keyword hits into a sorted,
// deduplicated set.
func mergeFrameworks(lists ...[]string) []string {
	seen := make(map[string]bool)
	merged := []string{}
	for _, list := range lists {
		for _, framework := range list {
			if !seen[framework] {
				seen[framework] = true
				merged = append(merged, framework)
			}
		}
	}
	sort.Strings(merged)
	return merged
}
