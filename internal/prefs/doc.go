// Package prefs persists small UI preferences, currently just the interface
// language. Codes are canonicalized through golang.org/x/text/language and
// restricted to the product's supported set.
package prefs
