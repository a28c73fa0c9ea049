// Package hardcopytemplate renders the HTML that hardcopy converts.
//
// Pongo2Executor loads Django-syntax templates from a directory, with
// extends and include resolved relative to it. Any TemplateExecutor can be
// plugged into the view instead.
package hardcopytemplate
