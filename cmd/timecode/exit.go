package main

// Process exit codes. Scripts drive recording sessions, so the codes are
// part of the CLI contract.
const (
	exitOK               = 0
	exitInternalFailure  = 1
	exitInvalidInput     = 2
	exitConflict         = 3
	exitValidationFailed = 4
	exitNotInitialized   = 5
)
