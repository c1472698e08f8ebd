package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess          = 0 // Submission succeeded
	ExitSubmissionFailed = 1 // The service or transport reported an error
	ExitError            = 2 // Configuration or usage error
)

// SubmissionFailedError indicates that the request was sent but the
// submission settled with an error message.
type SubmissionFailedError struct {
	Message string
}

func (e *SubmissionFailedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var failed *SubmissionFailedError
	if errors.As(err, &failed) {
		return ExitSubmissionFailed
	}
	return ExitError
}
