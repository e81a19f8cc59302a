// Package checker implements the heuristics that screen a submitted paper
// against a conference's formatting and double-blind policy.
//
// The checks fall into four groups:
//
//   - Page structure: locating the references section, removing line numbers
//     and running headers, and finding the title.
//   - Anonymity: emails, author metadata, self-citations and roster names on
//     the first page, and title consistency.
//   - Style: telling the ACM template from the IEEE template.
//   - Issues: combining everything into an ordered list for a page limit,
//     reference allowance and required template.
//
// Every check is a heuristic. False positives and false negatives are
// expected; the issues are signals for a human reviewer, and a paper without
// issues is not guaranteed to be anonymous.
//
// Design decision: The compiled patterns live in a single table built on
// first use and never modified. Checkers for different documents can run in
// parallel without locking.
package checker
