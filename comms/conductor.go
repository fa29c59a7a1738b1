package comms

import (
	"encoding/json"
	"sync"

	"github.com/CodedInternet/gorover/onboard"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Cmd is the command envelope clients send over the state socket.
type Cmd struct {
	Cmd   string `json:"cmd"`
	Value int    `json:"value"`
}

// Conductor routes client commands onto the device and fans the applied
// state back out to every connected websocket client.
type Conductor struct {
	Device onboard.Rover

	lock    sync.Mutex
	clients map[*websocket.Conn]bool
}

func (c *Conductor) AddClient(conn *websocket.Conn) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.clients == nil {
		c.clients = make(map[*websocket.Conn]bool)
	}
	c.clients[conn] = true
}

func (c *Conductor) RemoveClient(conn *websocket.Conn) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.clients, conn)
}

// ProcessCommand applies a single client command. Unknown commands are
// logged and dropped; values are clamped downstream so no validation
// happens here.
func (c *Conductor) ProcessCommand(cmd Cmd) {
	switch cmd.Cmd {
	case "throttle":
		c.Device.Apply(onboard.ControlUpdate{Throttle: &cmd.Value})

	case "steer":
		c.Device.Apply(onboard.ControlUpdate{Steer: &cmd.Value})

	case "elev":
		c.Device.Apply(onboard.ControlUpdate{Elevator: &cmd.Value})

	case "stop":
		c.Device.Stop()

	default:
		log.Warnf("unable to process command %v", cmd)
		return
	}

	c.UpdateClients()
}

// UpdateClients broadcasts the current applied state to every client.
// Connections that fail to write are dropped; the read loop in the
// handler owns closing them.
func (c *Conductor) UpdateClients() {
	msg, err := json.Marshal(NewStatePayload(c.Device.State()))
	if err != nil {
		log.WithError(err).Error("unable to marshal state payload")
		return
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	for conn := range c.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.WithError(err).Warn("dropping unwritable state client")
			delete(c.clients, conn)
		}
	}
}
