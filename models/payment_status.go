// models/payment_status.go
package models

// SubmissionState is the position of a form in its submit flow.
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionSubmitting
	SubmissionChallengeRequired
	SubmissionFailed
	SubmissionSucceeded
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionSubmitting:
		return "submitting"
	case SubmissionChallengeRequired:
		return "challenge_required"
	case SubmissionFailed:
		return "failed"
	case SubmissionSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

func (s SubmissionState) IsValid() bool {
	return s >= SubmissionIdle && s <= SubmissionSucceeded
}

// CanSubmit reports whether a new submission may start from s.
func (s SubmissionState) CanSubmit() bool {
	return s.IsValid() && s != SubmissionSubmitting
}
