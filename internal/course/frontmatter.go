package course

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header of a lesson.
type FrontMatter struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Extra       map[string]any `yaml:",inline"`
}

// SplitFrontMatter separates a leading "---" YAML block from the lesson
// body. Text without a header is returned unchanged with an empty header.
func SplitFrontMatter(text string) (FrontMatter, string, error) {
	var fm FrontMatter
	if !strings.HasPrefix(text, "---\n") {
		return fm, text, nil
	}
	rest := text[len("---\n"):]

	var header, body string
	switch {
	case strings.HasPrefix(rest, "---\n"):
		header, body = "", rest[len("---\n"):]
	case rest == "---":
		header, body = "", ""
	default:
		end := strings.Index(rest, "\n---\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n---") {
				return fm, text, nil
			}
			header, body = rest[:len(rest)-len("\n---")], ""
		} else {
			header, body = rest[:end], rest[end+len("\n---\n"):]
		}
	}

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return FrontMatter{}, text, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, body, nil
}
