package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CodedInternet/gorover/comms"
	"github.com/CodedInternet/gorover/onboard"
	. "github.com/smartystreets/goconvey/convey"
)

func setupTestRover() onboard.Rover {
	rover, err := onboard.NewRoverSimulator(onboard.RoverConfig{Version: "DEV"})
	if err != nil {
		panic(err)
	}
	ENV.Rover = rover
	ENV.Conductor = &comms.Conductor{Device: rover}
	return rover
}

func TestHandleControl(t *testing.T) {
	Convey("with a simulated rover behind the handler", t, func() {
		setupTestRover()
		handler := http.HandlerFunc(HandleControl)

		Convey("a full update is applied and echoed as plain text", func() {
			req := httptest.NewRequest("GET", "/control?throttle=42&steer=-10&elev=135", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			So(rr.Code, ShouldEqual, http.StatusOK)
			body, _ := ioutil.ReadAll(rr.Result().Body)
			So(string(body), ShouldEqual, "Throttle: 42%  |  Steer: -10  |  Elevator: 135°")
		})

		Convey("missing parameters leave their fields unchanged", func() {
			req := httptest.NewRequest("GET", "/control?throttle=55", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			So(ENV.Rover.State().Throttle, ShouldEqual, 55)
			So(ENV.Rover.State().Steer, ShouldEqual, 0)
			So(ENV.Rover.State().Elevator, ShouldEqual, onboard.ELEVATOR_CENTER_DEG)
		})

		Convey("unparseable values are treated as absent, never an error", func() {
			req := httptest.NewRequest("GET", "/control?throttle=full&steer=0x10", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			So(rr.Code, ShouldEqual, http.StatusOK)
			So(ENV.Rover.State(), ShouldResemble, onboard.NewControlState())
		})

		Convey("out of range values are clamped silently", func() {
			req := httptest.NewRequest("GET", "/control?throttle=300&steer=-999&elev=-10", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			body, _ := ioutil.ReadAll(rr.Result().Body)
			So(string(body), ShouldEqual, "Throttle: 100%  |  Steer: -100  |  Elevator: 0°")
		})
	})
}

func TestAPIControl(t *testing.T) {
	Convey("with a simulated rover behind the JSON API", t, func() {
		setupTestRover()
		handler := http.HandlerFunc(APIControl)

		Convey("a partial JSON update applies only the present fields", func() {
			body, _ := json.Marshal(map[string]int{"throttle": 60, "steer": 40})
			req := httptest.NewRequest("POST", "/api/control", bytes.NewBuffer(body))
			req.Header.Add("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			So(rr.Code, ShouldEqual, http.StatusOK)

			var payload comms.StatePayload
			So(json.Unmarshal(rr.Body.Bytes(), &payload), ShouldBeNil)
			So(payload.Throttle, ShouldEqual, 60)
			So(payload.Steer, ShouldEqual, 40)
			So(payload.Elevator, ShouldEqual, onboard.ELEVATOR_CENTER_DEG)
			So(payload.Status, ShouldContainSubstring, "Throttle: 60%")
		})
	})
}

func TestAPIState(t *testing.T) {
	Convey("state reports without mutating", t, func() {
		rover := setupTestRover()
		throttle := 30
		rover.Apply(onboard.ControlUpdate{Throttle: &throttle})

		req := httptest.NewRequest("GET", "/api/state", nil)
		rr := httptest.NewRecorder()
		http.HandlerFunc(APIState).ServeHTTP(rr, req)

		So(rr.Code, ShouldEqual, http.StatusOK)

		var payload comms.StatePayload
		So(json.Unmarshal(rr.Body.Bytes(), &payload), ShouldBeNil)
		So(payload.Throttle, ShouldEqual, 30)
		So(rover.State().Throttle, ShouldEqual, 30)
	})
}

func TestAPIStop(t *testing.T) {
	Convey("stop zeroes the drive over the API", t, func() {
		rover := setupTestRover()
		throttle, steer := 80, 20
		rover.Apply(onboard.ControlUpdate{Throttle: &throttle, Steer: &steer})

		req := httptest.NewRequest("POST", "/api/stop", nil)
		rr := httptest.NewRecorder()
		http.HandlerFunc(APIStop).ServeHTTP(rr, req)

		So(rr.Code, ShouldEqual, http.StatusOK)
		So(rover.State().Throttle, ShouldEqual, 0)
		So(rover.State().Steer, ShouldEqual, 0)
	})
}
