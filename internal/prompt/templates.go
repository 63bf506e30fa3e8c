package prompt

// DefaultPersona is the system prompt used when the config does not set
// one.
const DefaultPersona = `You are an expert R programmer embedded in an editor. ` +
	`You respond with R code or R documentation only, never with prose ` +
	`explanations, unless the request explicitly asks for an explanation. ` +
	`Do not wrap responses in markdown fences.`

const defaultEditTemplate = `Rewrite the following R function according to the instruction.
Return the complete rewritten function and nothing else.

Instruction: {{.Instruction}}

{{if .Doc}}Existing documentation:
{{.Doc}}

{{end}}Function{{if .Name}} {{.Name}}{{end}}:
{{.Code}}`

const defaultDocumentTemplate = `Write a roxygen2 documentation block for the following R function.
Return only the documentation lines, each starting with #', and nothing else.
Include @param tags for every parameter and a @return tag.

{{if .Doc}}The current documentation, to be replaced:
{{.Doc}}

{{end}}Function{{if .Name}} {{.Name}}{{end}}:
{{.Code}}`

const defaultExplainTemplate = `Explain what the following R function does, step by step,
in plain language. Mention edge cases the implementation handles or misses.

{{if .Doc}}Documentation:
{{.Doc}}

{{end}}Function{{if .Name}} {{.Name}}{{end}}:
{{.Code}}`

var defaultTemplates = map[Task]string{
	TaskEdit:     defaultEditTemplate,
	TaskDocument: defaultDocumentTemplate,
	TaskExplain:  defaultExplainTemplate,
}
