package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"wormpot/comms"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
)

func runWebGateway(ctx context.Context, server *server, addr string) error {
	log := log.With().Str("gw", "web").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("web listening on http://%v", ln.Addr())

	rh := restHandler{
		server: server,
		log:    log,
	}

	ch := commsHandler{
		server: server,
		log:    log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	a := r.Group("/api")
	a.GET("/rooms", rh.getRooms)
	a.POST("/rooms", rh.makeRoom)
	a.GET("/rooms/:id", rh.getRoom)
	a.DELETE("/rooms/:id", rh.deleteRoom)
	a.POST("/rooms/:id/players", rh.joinRoom)
	r.GET("/ws", ch.serveWS)

	s := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: time.Second * 10,
	}
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	err = s.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type restHandler struct {
	server *server
	log    zerolog.Logger
}

func (rh *restHandler) getRooms(c *gin.Context) {
	c.JSON(http.StatusOK, rh.server.ListRooms())
}

func (rh *restHandler) makeRoom(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.String(http.StatusBadRequest, "missing name")
		return
	}

	info := rh.server.CreateRoom(name)
	c.JSON(http.StatusOK, info)
}

func (rh *restHandler) getRoom(c *gin.Context) {
	id := c.Param("id")

	info, ok := rh.server.QueryRoom(id)
	if !ok {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (rh *restHandler) deleteRoom(c *gin.Context) {
	id := c.Param("id")

	if !rh.server.DeleteRoom(id) {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	c.String(http.StatusOK, "ok: %s", id)
}

type joinRequest struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`
	Watch  bool   `json:"watch"`
}

type joinResponse struct {
	Player string `json:"player"`
	Code   string `json:"code"`
}

func (rh *restHandler) joinRoom(c *gin.Context) {
	id := c.Param("id")

	var req joinRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	if req.Name == "" {
		c.String(http.StatusBadRequest, "missing name")
		return
	}

	rep, err := rh.server.Join(id, req.Name, req.Colour, req.Watch)
	if err != nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}
	if rep.Err != nil {
		c.JSON(http.StatusConflict, comms.WrapError(rep.Err))
		return
	}

	c.JSON(http.StatusOK, joinResponse{Player: rep.PlayerID, Code: rep.Code})
}

type commsHandler struct {
	server *server
	log    zerolog.Logger
}

func (ch *commsHandler) serveWS(c *gin.Context) {
	addr := c.Request.RemoteAddr

	log := ch.log.With().Str("client", addr).Logger()
	log.Info().Msgf("connecting")

	code := c.Query("code")
	roomId, playerId, err := decodeConnectString(code)
	if err != nil {
		c.String(http.StatusBadRequest, "bad code")
		return
	}

	socket, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		Subprotocols:   []string{"comms"},
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Info().Err(err).Msg("websocket accept error")
		return
	}
	defer socket.Close(websocket.StatusInternalError, "the sky is falling")

	if socket.Subprotocol() != "comms" {
		socket.Close(websocket.StatusPolicyViolation, "client must speak the comms subprotocol")
		return
	}

	downCh := make(chan interface{}, 100)

	err = ch.server.Connect(roomId, playerId, clientBundle{downCh})
	if err != nil {
		log.Info().Msgf("refusing: %s", addr)
		msg, _ := comms.Encode("connected", comms.ConnectResponse{Err: comms.WrapError(err)})
		sendDownWs(c.Request.Context(), socket, msg)
		socket.Close(websocket.StatusNormalClosure, "cannot connect")
		return
	}

	msg, _ := comms.Encode("connected", comms.ConnectResponse{Room: roomId, Player: playerId})
	sendDownWs(c.Request.Context(), socket, msg)

	go func() {
		// read downCh, write to conn
		for down := range downCh {
			msg, err := encodeDown(down)
			if err != nil {
				log.Info().Err(err).Msg("encode error")
				continue
			}
			err = sendDownWs(context.Background(), socket, msg)
			if err != nil {
				log.Info().Err(err).Msg("send error")
				return
			}
		}
		socket.Close(websocket.StatusNormalClosure, "room gone")
	}()

	for {
		// read conn, despatch into room
		msg, err = readMessageWs(c.Request.Context(), socket)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				log.Info().Err(err).Msgf("client read error: %v", addr)
			}
			ch.server.Deliver(roomId, disconnectMsg{PlayerID: playerId})
			return
		}

		dispatch(ch.server, roomId, playerId, msg, log)
	}
}

func sendDownWs(ctx context.Context, ws *websocket.Conn, msg comms.Message) error {
	data, err := comms.Marshal(msg)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}

func readMessageWs(ctx context.Context, ws *websocket.Conn) (comms.Message, error) {
	_, data, err := ws.Read(ctx)
	if err != nil {
		return comms.Message{}, err
	}
	return comms.Unmarshal(data)
}
