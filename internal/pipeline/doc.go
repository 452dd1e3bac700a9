// Package pipeline provides a framework for processing metrics reports in
// ordered steps.
//
// Every report goes through the same stages: reading the file, then
// scanning its tables into records. Each stage is implemented as a Step
// that receives the Extraction being built and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It provides consistent error handling and logging across steps
// 2. It supports cancellation via context between steps
// 3. The batch processor can run the same pipeline for many reports
//
// The pipeline supports both single reports and batch processing with
// concurrency control using errgroup.
package pipeline
