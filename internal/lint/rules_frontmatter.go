package lint

import (
	"fmt"
	"os"

	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/frontmatter"
)

// maxDescriptionLength is where search engines and link previews truncate.
const maxDescriptionLength = 160

// FrontmatterRule checks that markdown files carry well-formed front
// matter with the fields navigation depends on.
type FrontmatterRule struct{}

func (r *FrontmatterRule) Name() string {
	return "frontmatter"
}

func (r *FrontmatterRule) AppliesTo(filePath string) bool {
	return IsDocFile(filePath)
}

// Check validates the front-matter block of a single file.
func (r *FrontmatterRule) Check(filePath string) ([]Issue, error) {
	raw, err := os.ReadFile(filePath) //nolint:gosec // linting files by path is the point
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	fields, _, had, _, err := frontmatter.Parse(raw)
	if err != nil {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("Invalid front matter: %v", err),
			Explanation: "The front matter must be valid YAML between --- delimiters. The build falls back to a derived title but loses every declared field.",
			Fix:         "Fix the YAML syntax or close the block with ---",
			Line:        1,
		}}, nil
	}

	if !had {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     "Missing front matter",
			Explanation: "Without front matter the title falls back to the first heading or the filename, and the document cannot declare a sidebar position.",
			Fix:         "Add a front matter block with at least a title",
			Line:        1,
		}}, nil
	}

	var issues []Issue

	typed, err := frontmatter.DecodeFields(fields)
	if err != nil {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("Front matter field types: %v", err),
			Explanation: "Known keys must carry their declared types (title string, sidebar_position integer, draft boolean, tags list).",
			Fix:         "Correct the offending values",
			Line:        1,
		})
	}

	if typed.Title == "" {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Missing or empty title",
			Explanation: "Every document needs a non-empty title; navigation labels and the emitted model depend on it.",
			Fix:         "Add 'title: ...' to the front matter",
			Line:        1,
		})
	}

	if len(typed.Description) > maxDescriptionLength {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("Description is %d characters (max %d)", len(typed.Description), maxDescriptionLength),
			Explanation: "Long descriptions get truncated in search results and link previews.",
			Fix:         "Shorten the description",
			Line:        1,
		})
	}

	if typed.Slug != "" {
		if normalized := content.Slugify(typed.Slug); normalized != typed.Slug {
			issues = append(issues, Issue{
				FilePath:    filePath,
				Severity:    SeverityInfo,
				Rule:        r.Name(),
				Message:     fmt.Sprintf("Slug %q normalizes to %q", typed.Slug, normalized),
				Explanation: "Routes use the normalized form; write it out to make links greppable.",
				Fix:         fmt.Sprintf("Use 'slug: %s'", normalized),
				Line:        1,
			})
		}
	}

	return issues, nil
}
