// Package course loads the course structure that orders lessons into a
// navigable tree, and resolves lesson routes to files.
package course

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ErrLessonNotFound is returned when a route names no lesson.
var ErrLessonNotFound = errors.New("lesson not found")

// Item is a node of the course tree. Sections carry Items, lessons a Path.
type Item struct {
	Title string `yaml:"title"`
	Path  string `yaml:"path,omitempty"`
	Items []Item `yaml:"items,omitempty"`
}

// Course is the parsed course.yaml.
type Course struct {
	Title     string `yaml:"title"`
	Structure []Item `yaml:"structure"`

	// Root is the directory lesson routes are resolved against.
	Root string `yaml:"-"`
}

// Lesson is a flattened lesson entry.
type Lesson struct {
	Title   string
	Route   string
	Section string
	Depth   int
}

// Load reads a course file. Lesson routes resolve against root, or the
// course file's directory when root is empty.
func Load(path, root string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if root == "" {
		root = filepath.Dir(path)
	}
	c.Root = root
	log.Debug().Str("path", path).Str("title", c.Title).Int("lessons", len(c.Lessons())).Msg("course loaded")
	return c, nil
}

// Parse decodes course YAML.
func Parse(data []byte) (*Course, error) {
	var c Course
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Title == "" {
		return nil, errors.New("course has no title")
	}
	return &c, nil
}

// Lessons returns every lesson in reading order.
func (c *Course) Lessons() []Lesson {
	var out []Lesson
	var walk func(items []Item, section string, depth int)
	walk = func(items []Item, section string, depth int) {
		for _, it := range items {
			if it.Path != "" {
				out = append(out, Lesson{Title: it.Title, Route: it.Path, Section: section, Depth: depth})
			}
			if len(it.Items) > 0 {
				walk(it.Items, it.Title, depth+1)
			}
		}
	}
	walk(c.Structure, "", 0)
	return out
}

// Lookup returns the index of the lesson with the given route.
func (c *Course) Lookup(route string) (int, Lesson, error) {
	want := normalizeRoute(route)
	for i, l := range c.Lessons() {
		if normalizeRoute(l.Route) == want {
			return i, l, nil
		}
	}
	return -1, Lesson{}, fmt.Errorf("%w: %s", ErrLessonNotFound, route)
}

// Next returns the lesson after index i.
func (c *Course) Next(i int) (Lesson, bool) {
	lessons := c.Lessons()
	if i+1 < 0 || i+1 >= len(lessons) {
		return Lesson{}, false
	}
	return lessons[i+1], true
}

// Prev returns the lesson before index i.
func (c *Course) Prev(i int) (Lesson, bool) {
	lessons := c.Lessons()
	if i-1 < 0 || i-1 >= len(lessons) {
		return Lesson{}, false
	}
	return lessons[i-1], true
}

// File maps a lesson route such as /intro/lesson1 to its .mdx file.
func (c *Course) File(route string) string {
	rel := strings.TrimPrefix(normalizeRoute(route), "/")
	if ext := filepath.Ext(rel); ext == ".mdx" || ext == ".md" {
		return filepath.Join(c.Root, filepath.FromSlash(rel))
	}
	return filepath.Join(c.Root, filepath.FromSlash(rel)+".mdx")
}

func normalizeRoute(r string) string {
	r = strings.TrimSpace(r)
	r = strings.TrimSuffix(r, "/")
	if !strings.HasPrefix(r, "/") {
		r = "/" + r
	}
	return r
}
