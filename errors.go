package fsm

import "errors"

// Reasons a transition request is turned down. They are reported to
// the logger and to observers, never returned.
var (
	ErrMachineBlocked      = errors.New("state machine is blocked")
	ErrStateBlocked        = errors.New("target state is blocked")
	ErrAlreadyActive       = errors.New("target state is already active")
	ErrReentrantTransition = errors.New("transition requested while another transition is completing")
	ErrUnknownOverride     = errors.New("override owner is not registered")
)
