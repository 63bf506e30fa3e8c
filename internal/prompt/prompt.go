package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/rassist/rassist-mcp/pkg/types"
)

// Common errors
var (
	ErrUnknownTask = errors.New("unknown prompt task")
	ErrBadTemplate = errors.New("invalid prompt template")
)

// Task names one kind of assistance request.
type Task string

const (
	TaskEdit     Task = "edit"
	TaskDocument Task = "document"
	TaskExplain  Task = "explain"
)

// Config carries all prompt-shaping inputs explicitly. Nothing in this
// package reads files or environment variables; the caller decides where
// the values come from.
type Config struct {
	// Persona is the system prompt preamble.
	Persona string `yaml:"persona"`
	// Templates overrides the built-in task templates, keyed by task
	// name. Missing keys keep their defaults.
	Templates map[string]string `yaml:"templates,omitempty"`
}

// Context is the data a task template is rendered with.
type Context struct {
	Name        string // Function name; may be empty
	Code        string // Function source, signature through closing brace
	Doc         string // Existing roxygen block, "" when absent
	Instruction string // User instruction, edit task only
}

// Builder renders system and user prompts for a task.
type Builder struct {
	persona string
	tmpl    map[Task]*template.Template
}

// NewBuilder parses the configured templates, falling back to the
// package defaults for any task the config does not override.
func NewBuilder(cfg Config) (*Builder, error) {
	persona := cfg.Persona
	if persona == "" {
		persona = DefaultPersona
	}

	b := &Builder{
		persona: persona,
		tmpl:    make(map[Task]*template.Template, len(defaultTemplates)),
	}

	for task, text := range defaultTemplates {
		if override, ok := cfg.Templates[string(task)]; ok {
			text = override
		}
		tmpl, err := template.New(string(task)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", ErrBadTemplate, task, err)
		}
		b.tmpl[task] = tmpl
	}

	for name := range cfg.Templates {
		if _, ok := defaultTemplates[Task(name)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
		}
	}

	return b, nil
}

// Build renders the user prompt for task and returns it with the system
// prompt.
func (b *Builder) Build(task Task, pc Context) (system, user string, err error) {
	tmpl, ok := b.tmpl[task]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTask, task)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, pc); err != nil {
		return "", "", fmt.Errorf("%w: task %s: %v", ErrBadTemplate, task, err)
	}
	return b.persona, sb.String(), nil
}

// FunctionContext assembles a template Context from a located function.
// The function must at least have a start line; for an unterminated span
// the code runs through end of document.
func FunctionContext(doc types.Document, fn *types.FunctionDetails, instruction string) Context {
	span := fn.Span
	if span.End == 0 {
		span.End = doc.Len()
	}

	ctx := Context{
		Name:        fn.Name,
		Code:        doc.Slice(span).Text(),
		Instruction: instruction,
	}
	if fn.Doc != nil {
		ctx.Doc = doc.Slice(*fn.Doc).Text()
	}
	return ctx
}
