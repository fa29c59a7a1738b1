package main

import (
	"net/http"
	"strconv"

	"github.com/CodedInternet/gorover/comms"
	"github.com/CodedInternet/gorover/onboard"
	"github.com/go-chi/render"
)

// intArg reads an optional integer query parameter. Missing or
// unparseable values are treated as absent; range checking is left to
// the device, which clamps on write.
func intArg(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// HandleControl is wire compatible with the original firmware page:
// GET /control?throttle=..&steer=..&elev=.. applies whichever fields are
// present and replies with the applied state as a plain text line.
func HandleControl(w http.ResponseWriter, r *http.Request) {
	state := ENV.Rover.Apply(onboard.ControlUpdate{
		Throttle: intArg(r, "throttle"),
		Steer:    intArg(r, "steer"),
		Elevator: intArg(r, "elev"),
	})
	ENV.Conductor.UpdateClients()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(state.String()))
}

//---
// JSON API
//---

type ControlPayload struct {
	Throttle *int `json:"throttle,omitempty"`
	Steer    *int `json:"steer,omitempty"`
	Elevator *int `json:"elev,omitempty"`
}

func (c *ControlPayload) Bind(r *http.Request) error {
	return nil
}

func APIControl(w http.ResponseWriter, r *http.Request) {
	data := &ControlPayload{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	state := ENV.Rover.Apply(onboard.ControlUpdate{
		Throttle: data.Throttle,
		Steer:    data.Steer,
		Elevator: data.Elevator,
	})
	ENV.Conductor.UpdateClients()

	render.JSON(w, r, comms.NewStatePayload(state))
}

func APIState(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, comms.NewStatePayload(ENV.Rover.State()))
}

func APIStop(w http.ResponseWriter, r *http.Request) {
	state := ENV.Rover.Stop()
	ENV.Conductor.UpdateClients()

	render.JSON(w, r, comms.NewStatePayload(state))
}
