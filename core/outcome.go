package core

// Status distinguishes successful session completion from a fatal failure.
type Status string

const (
	// StatusSuccess means the loop reached a terminal state normally.
	StatusSuccess Status = "success"
	// StatusFailure means the session aborted on an unrecoverable error.
	StatusFailure Status = "failure"
)

// Outcome is the caller-facing result of a session. On failure the partial
// transcript is preserved up to the point of the error.
type Outcome struct {
	Status     Status    `json:"status"`
	Transcript []Message `json:"transcript"`
	Vars       Vars      `json:"vars"`
	Err        error     `json:"-"`
	Error      string    `json:"error,omitempty"`
}

// Failure builds a failure outcome keeping the partial session state.
func Failure(sess *Session, err error) Outcome {
	o := Outcome{Status: StatusFailure, Err: err}
	if err != nil {
		o.Error = err.Error()
	}
	if sess != nil {
		o.Transcript = sess.GetTranscript()
		o.Vars = sess.GetVars()
	}
	return o
}

// Success builds a success outcome from the final session state.
func Success(sess *Session) Outcome {
	return Outcome{Status: StatusSuccess, Transcript: sess.GetTranscript(), Vars: sess.GetVars()}
}
