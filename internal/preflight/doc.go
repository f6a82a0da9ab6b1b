// Package preflight provides system validation and pre-flight checks
// to ensure Booger can run successfully before starting operations.
//
// The package validates:
//   - Disk space availability (minimum 100MB)
//   - Memory (minimum 1GB, checked against a fixed 4GB estimate;
//     system memory is not measured)
//   - Write permissions in project directory
//   - File descriptor limits (minimum 1024)
//   - Embedding model download and disk space for it (warnings only)
//
// Use the Checker type to run all validations:
//
//	checker := preflight.New()
//	results := checker.RunAll(ctx, "/path/to/project")
//	if checker.HasCriticalFailures(results) {
//	    // Handle failures
//	}
package preflight
