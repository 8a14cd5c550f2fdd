package cli

// Exit codes for the forgebee CLI. Scripts and CI distinguish a fully
// successful run from a degraded one.
const (
	// ExitSuccess means every stage succeeded.
	ExitSuccess = 0

	// ExitFailure means the run failed (fatal design failure or a
	// process-level fault).
	ExitFailure = 1

	// ExitDegraded means the run completed with at least one failed,
	// partial, or skipped stage.
	ExitDegraded = 2

	// ExitInvalidArguments means the command was invoked incorrectly.
	ExitInvalidArguments = 3
)
