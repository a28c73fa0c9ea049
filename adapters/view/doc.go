// Package hardcopyview serves rendered documents over any HTTP transport.
//
// A View renders its template, then converts the HTML with a
// hardcopy.Converter and streams the result with download headers. Adding
// ?html to the request returns the rendered HTML instead, which is handy when
// debugging templates. Transports implement Request and Response; see the
// hardcopyhttp and hardcopyrouter packages.
package hardcopyview
