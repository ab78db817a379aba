package ws

import (
	"encoding/json"

	"giftExchangeServer/game"
)

// ClientMessage is one inbound frame. Only action frames exist today.
type ClientMessage struct {
	Type   string       `json:"type"`
	Action *game.Action `json:"action,omitempty"`
}

// stateFrame pushes the full client-facing view; the embedded View fields
// serialize inline next to the tag.
type stateFrame struct {
	Type string `json:"type"`
	game.View
}

// eventFrame wraps one history event.
type eventFrame struct {
	Type  string     `json:"type"`
	Event game.Event `json:"event"`
}

func marshalState(v game.View) ([]byte, error) {
	return json.Marshal(stateFrame{Type: "state", View: v})
}

func marshalEvent(ev game.Event) ([]byte, error) {
	return json.Marshal(eventFrame{Type: "event", Event: ev})
}
