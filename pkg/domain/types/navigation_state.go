package types

// NavigationState represents where a test taker is within an assessment
type NavigationState string

const (
	NavigationSelectingTest NavigationState = "selecting_test"
	NavigationAnswering     NavigationState = "answering"
	NavigationCompleted     NavigationState = "completed"
)

// String returns the string representation of the state
func (s NavigationState) String() string {
	return string(s)
}

// IsValid checks if the state is valid
func (s NavigationState) IsValid() bool {
	switch s {
	case NavigationSelectingTest, NavigationAnswering, NavigationCompleted:
		return true
	default:
		return false
	}
}
