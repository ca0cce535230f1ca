package server

import (
	"context"
	"net"

	"wormpot/comms"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func runTcpGateway(ctx context.Context, server *server, addr string) error {
	log := log.With().Str("gw", "tcp").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("comms listening on tcp:%v", ln.Addr())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	m := &tcpManager{
		server: server,
		log:    log,
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go m.manageConnection(conn)
	}
}

type tcpManager struct {
	server *server
	log    zerolog.Logger
}

func (m *tcpManager) manageConnection(conn net.Conn) {
	defer conn.Close()

	addr := conn.RemoteAddr()
	log := m.log.With().Str("client", addr.String()).Logger()
	log.Info().Msg("connecting")

	upStream := comms.NewDecoder(conn)
	dnStream := comms.NewEncoder(conn)

	msg1, err := upStream.Decode()
	if err != nil {
		log.Info().Err(err).Msg("first message error")
		return
	}

	fields := msg1.Head.Fields()
	if len(fields) != 2 || fields[0] != "connect" {
		log.Info().Msg("bad first message head")
		return
	}

	roomId, playerId, err := decodeConnectString(fields[1])
	if err != nil {
		log.Info().Msg("bad connect code")
		return
	}

	downCh := make(chan interface{}, 100)

	err = m.server.Connect(roomId, playerId, clientBundle{downCh})
	if err != nil {
		log.Info().Err(err).Msg("connect error")
		dnStream.Encode("connected", comms.ConnectResponse{Err: comms.WrapError(err)})
		return
	}

	dnStream.Encode("connected", comms.ConnectResponse{Room: roomId, Player: playerId})

	go func() {
		// read downCh, write to conn
		for down := range downCh {
			msg, err := encodeDown(down)
			if err != nil {
				log.Info().Err(err).Msg("encode error")
				continue
			}
			if err := dnStream.Send(msg); err != nil {
				log.Info().Err(err).Msg("send error")
				conn.Close()
				return
			}
		}
		conn.Close()
	}()

	for {
		// read conn, despatch into room
		msg, err := upStream.Decode()
		if err != nil {
			log.Info().Err(err).Msgf("client gone: %v", addr)
			m.server.Deliver(roomId, disconnectMsg{PlayerID: playerId})
			return
		}

		dispatch(m.server, roomId, playerId, msg, log)
	}
}
