// Package main provides the entry point for the blindcheck CLI.
//
// blindcheck screens conference submissions (PDF) for double-blind and
// formatting policy violations: page limits, the required template,
// author emails, author names from the submission roster and revealing
// document metadata.
//
// Usage:
//
//	blindcheck check paper.pdf
//	blindcheck check --meta authors.csv submissions/
//
// See --help for all available options.
package main

// main is the entry point for blindcheck.
func main() {
	Execute()
}
