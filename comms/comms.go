// Package comms is the framing used on every persistent connection: a head
// string that says what the message is, and a JSON body. The same messages
// travel over TCP and websocket.
package comms

import (
	"encoding/json"
	"io"
	"strings"
)

// Head routes a message. Fields are joined with ":", e.g. "request:1:play".
type Head string

func (h Head) Fields() []string {
	return strings.Split(string(h), ":")
}

// Message is one unit on a comms connection.
type Message struct {
	Head Head
	Data []byte
}

// Encode makes a message out of anything JSON-able.
func Encode(head string, v interface{}) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Head: Head(head), Data: data}, nil
}

// Decode unpacks a message body.
func Decode(m Message, v interface{}) error {
	return json.Unmarshal(m.Data, v)
}

// wireMessage is how a Message looks on the wire.
type wireMessage struct {
	Head string          `json:"head"`
	Data json.RawMessage `json:"data"`
}

// Encoder writes messages to a stream, one JSON object per message.
type Encoder struct {
	enc *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: json.NewEncoder(w)}
}

func (e *Encoder) Send(m Message) error {
	return e.enc.Encode(wireMessage{Head: string(m.Head), Data: json.RawMessage(m.Data)})
}

func (e *Encoder) Encode(head string, v interface{}) error {
	m, err := Encode(head, v)
	if err != nil {
		return err
	}
	return e.Send(m)
}

// Decoder reads messages from a stream.
type Decoder struct {
	dec *json.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

func (d *Decoder) Decode() (Message, error) {
	var wm wireMessage
	if err := d.dec.Decode(&wm); err != nil {
		return Message{}, err
	}
	return Message{Head: Head(wm.Head), Data: []byte(wm.Data)}, nil
}

// Unmarshal turns raw wire bytes into a Message, for transports that frame
// for themselves (websocket).
func Unmarshal(data []byte) (Message, error) {
	var wm wireMessage
	if err := json.Unmarshal(data, &wm); err != nil {
		return Message{}, err
	}
	return Message{Head: Head(wm.Head), Data: []byte(wm.Data)}, nil
}

// Marshal is the reverse of Unmarshal.
func Marshal(m Message) ([]byte, error) {
	return json.Marshal(wireMessage{Head: string(m.Head), Data: json.RawMessage(m.Data)})
}
