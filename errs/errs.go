// Package errs holds the three kinds of error the game can report. Specific
// errors elsewhere wrap one of these kinds, so callers classify a failure
// with errors.Is and decide whether to re-prompt, ask for new settings, or
// carry on unsaved.
package errs

import "errors"

var (
	// ErrInput covers bad die indices, malformed commands, and actions made
	// in the wrong turn state. The shell re-prompts.
	ErrInput = errors.New("invalid input")
	// ErrConfig covers invalid player counts, round counts and names.
	ErrConfig = errors.New("invalid configuration")
	// ErrPersistence covers missing or corrupt save files and results
	// database failures. The game continues unsaved.
	ErrPersistence = errors.New("persistence failure")
)

// Kind returns the kind sentinel that err wraps, or nil if it wraps none.
func Kind(err error) error {
	for _, k := range []error{ErrInput, ErrConfig, ErrPersistence} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
