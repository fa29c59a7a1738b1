package comms

import (
	"github.com/CodedInternet/gorover/onboard"
)

// StatePayload is pushed to every connected client after a command is
// applied and returned by the state API.
type StatePayload struct {
	onboard.ControlState
	Status string `json:"status"`
}

func NewStatePayload(state onboard.ControlState) StatePayload {
	return StatePayload{
		ControlState: state,
		Status:       state.String(),
	}
}
