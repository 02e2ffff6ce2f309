package loader

import "errors"

// ErrorCollector gathers the errors of a batch of loads.
type ErrorCollector struct {
	Errors []error

	// Stop collecting after this many errors.  0 means no limit.
	MaxErrors int
}

func (f *ErrorCollector) HasErrors() bool {
	return len(f.Errors) > 0
}

// Full reports whether MaxErrors has been reached.
func (f *ErrorCollector) Full() bool {
	return f.MaxErrors > 0 && len(f.Errors) >= f.MaxErrors
}

// AddErrors records errs, skipping nils and anything past MaxErrors.
func (f *ErrorCollector) AddErrors(errs ...error) {
	for _, err := range errs {
		if err == nil || f.Full() {
			continue
		}
		f.Errors = append(f.Errors, err)
	}
}

// Err joins the collected errors, or returns nil when there are none.
func (f *ErrorCollector) Err() error {
	return errors.Join(f.Errors...)
}
