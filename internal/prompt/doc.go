// Package prompt builds chat prompts from located R functions.
//
// A Builder is constructed once from an explicit Config and renders
// task-specific user prompts with text/template:
//
//	builder, err := prompt.NewBuilder(cfg.Prompt)
//	system, user, err := builder.Build(prompt.TaskEdit, prompt.FunctionContext(doc, fn, "vectorize the loop"))
//
// All configuration is passed in; the package performs no file or
// environment reads of its own. The built-in templates cover three
// tasks: edit (instruction-driven rewrite), document (roxygen2 block
// generation), and explain. Any of them can be overridden per task in
// the config, and overrides are validated at construction time.
package prompt
