package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/CodedInternet/gorover/comms"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StateHandler upgrades /ws/state connections. Clients receive the
// applied state after every command; anything they send is decoded as a
// comms.Cmd and routed through the conductor.
func StateHandler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer c.Close()

	ENV.Conductor.AddClient(c)
	defer ENV.Conductor.RemoveClient(c)

	// push the current state so a fresh client renders immediately
	ENV.Conductor.UpdateClients()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			log.Println("read:", err)
			break
		}

		var cmd comms.Cmd
		if err := json.Unmarshal(msg, &cmd); err != nil {
			c.WriteMessage(websocket.TextMessage, []byte("Error: invalid json"))
			continue
		}

		ENV.Conductor.ProcessCommand(cmd)
	}
}
