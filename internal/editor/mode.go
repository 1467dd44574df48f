// Package editor implements the line editing state machine.
package editor

// Mode represents the current editing mode.
type Mode int

const (
	// ModeNavigation is the starting mode: no edit has happened yet and
	// ArrowDown fetches the next input line.
	ModeNavigation Mode = iota
	// ModeEdit is entered by the first in-line edit or horizontal move.
	ModeEdit
	// ModeAppend is entered once ArrowDown exhausts the input. It is sticky.
	ModeAppend
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNavigation:
		return "NAVIGATION"
	case ModeEdit:
		return "EDIT"
	case ModeAppend:
		return "APPEND"
	default:
		return "UNKNOWN"
	}
}

// Indicator returns the three-column prefix drawn before the line.
func (m Mode) Indicator() string {
	switch m {
	case ModeNavigation:
		return "[N]"
	case ModeEdit:
		return "[E]"
	case ModeAppend:
		return "[A]"
	default:
		return "[?]"
	}
}

// Outcome tells the caller what to do after an event.
type Outcome int

const (
	// Continue keeps the editing loop running.
	Continue Outcome = iota
	// Submit ends the loop; the line is final.
	Submit
	// Cancel ends the loop and discards the edit.
	Cancel
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Submit:
		return "submit"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}
