// Package document provides access to the text and metadata of submitted papers.
//
// The checker never touches files directly. It consumes the Document interface,
// which exposes the page count, the extracted text of each page, the full text,
// and the Info dictionary fields that matter for anonymity (author, creator,
// title).
//
// Two implementations are provided:
//
//   - PDF reads a file with github.com/ledongthuc/pdf. Text is extracted page by
//     page on first use and normalized with NFKC so that ligatures such as "ﬁ"
//     compare equal to their plain spelling.
//   - Memory holds page texts in memory. It is used by tests and by callers that
//     already have extracted text.
//
// Design decision: Blank metadata fields are reported as absent (ok == false)
// rather than as empty strings. Every consumer must branch on presence, which
// keeps "field missing" and "field set to whitespace" from being handled
// differently in different checks.
package document
