package checkout

// State is the submitter's position in the checkout lifecycle.
type State string

const (
	// StateIdle: cart empty or tender not ready; submission disabled.
	StateIdle State = "IDLE"
	// StateReadyToSubmit: cart non-empty, prices positive, tender ready.
	StateReadyToSubmit State = "READY_TO_SUBMIT"
	// StateSubmitting: request in flight; cart and tender are frozen.
	StateSubmitting State = "SUBMITTING"
	// StateCompleted: sale committed; cart cleared, tender reset.
	StateCompleted State = "COMPLETED"
	// StateFailed: submission rejected or unreachable; cart and tender
	// hold their pre-submission values.
	StateFailed State = "FAILED"
)

// String representation (for logging)
func (s State) String() string {
	return string(s)
}

// AcceptsInput reports whether operator commands may mutate the cart
// or tender in this state.
func (s State) AcceptsInput() bool {
	return s != StateSubmitting
}
