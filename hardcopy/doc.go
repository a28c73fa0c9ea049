// Package hardcopy converts rendered HTML into PDF or PNG documents using a
// headless browser.
//
// The package defines the render pipeline contract shared by all engines:
// a Request (HTML bytes or an existing file, a Format and pass-through
// renderer Options) goes in, a Result file positioned at offset zero comes
// out. RendererConfig is resolved once at startup with Resolver and passed
// explicitly to engines. Converters wrap an Engine as PDF or PNG strategies
// for framework-facing views.
package hardcopy
