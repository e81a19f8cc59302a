// Package pipeline provides a framework for executing check steps in sequence.
//
// Every submission file goes through the same stages: opening the PDF,
// attaching the author roster entry, running the heuristics and
// fingerprinting the extracted text. Each stage is implemented as a Step that
// receives the job being processed and the result to fill in.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. Optional stages (roster, --showtext) are added without touching the core
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for large submission sets
//
// The pipeline supports both individual checks and batch processing with
// concurrency control using errgroup.
package pipeline
