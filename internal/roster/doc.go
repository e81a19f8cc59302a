// Package roster loads the author list of submissions exported from HotCRP.
//
// The export is a CSV file with one row per author and a header naming the
// columns. The columns paper, title, first, last and email are required;
// affiliation and any other columns are ignored. Rows of the same paper are
// grouped into one model.Paper with the authors in file order.
//
// Submission files are matched to papers by name: "icse2021-paper13.pdf"
// belongs to paper 13.
//
// Design decision: A malformed row aborts the whole load. A roster with a
// silently skipped row would let that paper's authors pass the identity
// check unnoticed.
package roster
