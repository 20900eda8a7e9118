package websocket

// Message is the envelope for every feed message sent to clients.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}
