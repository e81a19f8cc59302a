// Package model defines the core data structures used throughout blindcheck.
//
// This package contains the following main types:
//   - Paper and Author: roster metadata for a submission
//   - Issue: a tagged, evidence-carrying policy violation
//   - PaperResult: the outcome of checking one document
//   - CheckRun: one invocation over many documents
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The checker, pipeline, report and database packages all need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
