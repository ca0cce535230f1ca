package server

import (
	"fmt"

	"wormpot/comms"

	"github.com/rs/zerolog"
)

// encodeDown turns anything a room puts on a downCh into a wire message.
func encodeDown(down interface{}) (comms.Message, error) {
	switch msg := down.(type) {
	case comms.Message:
		// send preformatted message
		return msg, nil
	case responseToUser:
		return comms.Encode("response:"+msg.ID, msg.Body)
	case toSend:
		return comms.Encode(msg.mtype, msg.data)
	default:
		return comms.Message{}, fmt.Errorf("cannot send: %#v", msg)
	}
}

// dispatch routes one inbound client message into the room's loop. Both
// gateways end up here.
func dispatch(s *server, roomId, playerId string, msg comms.Message, log zerolog.Logger) {
	f := msg.Head.Fields()
	switch f[0] {
	case "text":
		var text string
		if err := comms.Decode(msg, &text); err != nil {
			log.Info().Err(err).Msg("decode text error")
			return
		}
		s.Deliver(roomId, textFromUser{Who: playerId, Text: text})
	case "request":
		if len(f) < 3 {
			log.Info().Msgf("short request head: %v", f)
			return
		}
		s.Deliver(roomId, requestFromUser{Who: playerId, ID: f[1], Cmd: f[2:], Body: msg.Data})
	default:
		log.Info().Msgf("junk from client: %v", f)
	}
}
