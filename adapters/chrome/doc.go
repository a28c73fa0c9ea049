// Package hardcopychrome provides render engines backed by a Chrome or
// Chromium binary.
//
// ProcessEngine runs the binary once per render with a fixed argument vector
// and scoped temp files. CDPEngine keeps one browser alive and drives it over
// the DevTools protocol through chromedp.
package hardcopychrome
