package mock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"netcommand/internal/driver"
)

// datastore simulates running, startup and candidate configurations
type datastore struct {
	running  string
	startup  string
	previous *string

	candidate *string
	merge     bool
}

func newDatastore(running string) *datastore {
	return &datastore{running: running, startup: running}
}

// loadCandidate stages a replace or merge candidate. The file wins when both
// filename and config are given.
func (s *datastore) loadCandidate(args driver.Args, merge bool) error {
	var content string
	switch {
	case args.String("filename") != "":
		data, err := os.ReadFile(args.String("filename"))
		if err != nil {
			return fmt.Errorf("load candidate: %w", err)
		}
		content = string(data)
	case args.String("config") != "":
		content = args.String("config")
	default:
		return errors.New("load candidate: filename or config is required")
	}

	s.stage(content, merge)
	return nil
}

// loadTemplate renders a template with every argument that is not one of the
// template locators and merges the result into the candidate
func (s *datastore) loadTemplate(args driver.Args) error {
	name := args.String("template_name")
	source := args.String("template_source")
	if source == "" {
		dir := args.String("template_path")
		if dir == "" {
			return fmt.Errorf("load template %s: template_source or template_path is required", name)
		}
		data, err := os.ReadFile(filepath.Join(dir, name+".tmpl"))
		if err != nil {
			return fmt.Errorf("load template %s: %w", name, err)
		}
		source = string(data)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}

	vars := make(map[string]any, len(args))
	for k, v := range args {
		switch k {
		case "template_name", "template_source", "template_path":
			continue
		}
		vars[k] = v
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, vars); err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}

	s.stage(out.String(), true)
	return nil
}

func (s *datastore) stage(content string, merge bool) {
	if merge && s.candidate != nil && s.merge {
		joined := *s.candidate + content
		s.candidate = &joined
		return
	}
	s.candidate = &content
	s.merge = merge
}

// effective returns the running configuration a commit would produce
func (s *datastore) effective() (string, bool) {
	if s.candidate == nil {
		return "", false
	}
	if s.merge {
		return s.running + *s.candidate, true
	}
	return *s.candidate, true
}

// compare returns a line diff between running and the staged candidate
func (s *datastore) compare() string {
	target, ok := s.effective()
	if !ok {
		return ""
	}
	return lineDiff(s.running, target)
}

func (s *datastore) commit() {
	target, ok := s.effective()
	if !ok {
		return
	}
	previous := s.running
	s.previous = &previous
	s.running = target
	s.discard()
}

func (s *datastore) discard() {
	s.candidate = nil
	s.merge = false
}

func (s *datastore) rollback() {
	if s.previous == nil {
		return
	}
	s.running = *s.previous
	s.previous = nil
}

func (s *datastore) config(retrieve string) (map[string]any, error) {
	candidate, _ := s.effective()
	all := map[string]string{
		"running":   s.running,
		"startup":   s.startup,
		"candidate": candidate,
	}

	result := map[string]any{"running": "", "startup": "", "candidate": ""}
	switch retrieve {
	case "", "all":
		for k, v := range all {
			result[k] = v
		}
	case "running", "startup", "candidate":
		result[retrieve] = all[retrieve]
	default:
		return nil, fmt.Errorf("get_config: unknown retrieve value %q", retrieve)
	}
	return result, nil
}

// lineDiff lists lines removed from a with "-" and lines added in b with "+"
func lineDiff(a, b string) string {
	before := countLines(a)
	after := countLines(b)

	var out strings.Builder
	for _, line := range splitLines(a) {
		if after[line] > 0 {
			after[line]--
			continue
		}
		out.WriteString("-" + line + "\n")
	}
	for _, line := range splitLines(b) {
		if before[line] > 0 {
			before[line]--
			continue
		}
		out.WriteString("+" + line + "\n")
	}
	return out.String()
}

func countLines(s string) map[string]int {
	counts := make(map[string]int)
	for _, line := range splitLines(s) {
		counts[line]++
	}
	return counts
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
