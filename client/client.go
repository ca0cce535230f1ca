// Package client is a console client. It joins a room over the REST api,
// connects over TCP comms, and runs a readline repl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"wormpot/comms"
	"wormpot/game"

	rl "github.com/chzyer/readline"
)

const (
	RED     = "[31m"
	GREEN   = "[32m"
	YELLOW  = "[33m"
	BLUE    = "[34m"
	MAGENTA = "[35m"
	CYAN    = "[36m"
	WHITE   = "[37m"
)

func col(s string) string {
	switch s {
	case "red":
		return RED
	case "green":
		return GREEN
	case "yellow":
		return YELLOW
	case "blue":
		return BLUE
	case "purple":
		return MAGENTA
	case "cyan":
		return CYAN
	default:
		return "[0m"
	}
}

// Join asks the REST api for a seat in a room, and returns the connect code.
func Join(apiURL, roomId, name, colour string) (string, error) {
	body, err := json.Marshal(map[string]string{"name": name, "colour": colour})
	if err != nil {
		return "", err
	}

	res, err := http.Post(apiURL+"/api/rooms/"+roomId+"/players", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("cannot join: %s", strings.TrimSpace(string(data)))
	}

	rep := struct {
		Player string `json:"player"`
		Code   string `json:"code"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&rep); err != nil {
		return "", err
	}

	return rep.Code, nil
}

type Client interface {
	Run() error
}

func NewClient(server, code, name, colour string) Client {
	return &client{
		server:   server,
		code:     code,
		name:     name,
		colour:   colour,
		locCh:    make(chan reqRep),
		updateCh: make(chan string),
		reqs:     map[string]reqRep{},
	}
}

type reqRep struct {
	cmd  string
	body interface{}
	rep  chan comms.Message
}

type client struct {
	server string
	code   string
	name   string
	colour string

	locCh  chan reqRep
	upCh   chan comms.Message
	downCh chan comms.Message

	mu   sync.Mutex
	turn game.TurnState

	updateCh chan string
	updates  []string

	reqNo int
	reqs  map[string]reqRep
}

func (c *client) Run() error {
	conn, err := net.Dial("tcp", c.server)
	if err != nil {
		return err
	}
	defer conn.Close()

	upStream := comms.NewEncoder(conn)
	downStream := comms.NewDecoder(conn)

	err = upStream.Encode("connect:"+c.code, nil)
	if err != nil {
		return err
	}

	msg1, err := downStream.Decode()
	if err != nil {
		return err
	}
	res1 := comms.ConnectResponse{}
	if err := comms.Decode(msg1, &res1); err != nil {
		return err
	}
	if res1.Err != nil {
		return res1.Err
	}

	c.upCh = make(chan comms.Message, 1)
	defer close(c.upCh)
	c.downCh = make(chan comms.Message, 1)

	go func() {
		// read upCh, write to conn
		for msg := range c.upCh {
			if err := upStream.Send(msg); err != nil {
				fmt.Printf("send error: %v\n", err)
				return
			}
		}
	}()

	go func() {
		defer close(c.downCh)

		// read conn, write to downCh
		for {
			msg, err := downStream.Decode()
			if err != nil {
				if err != io.EOF {
					fmt.Printf("receive error: %v\n", err)
				}
				return
			}
			c.downCh <- msg
		}
	}()

	stopUI, err := c.startUI()
	if err != nil {
		return err
	}
	defer stopUI()

	// this is the client's main loop
loop:
	for {
		select {
		case rr, ok := <-c.locCh:
			if !ok {
				break loop
			}
			c.reqNo++
			id := strconv.Itoa(c.reqNo)
			c.reqs[id] = rr
			msg, err := comms.Encode("request:"+id+":"+rr.cmd, rr.body)
			if err != nil {
				rr.rep <- comms.Message{}
				continue
			}
			c.upCh <- msg
		case msg, ok := <-c.downCh:
			if !ok {
				fmt.Printf("connection closed\n")
				break loop
			}

			f := msg.Head.Fields()
			switch f[0] {
			case "turn":
				ts := game.TurnState{}
				if err := comms.Decode(msg, &ts); err != nil {
					continue
				}
				c.setTurn(ts)
			case "update":
				update := game.GameUpdate{}
				if err := comms.Decode(msg, &update); err != nil {
					continue
				}
				c.setTurn(update.Turn)
				for _, n := range update.News {
					c.pushUpdate(newsLine(n))
				}
				if update.State.Status == game.StatusFinished {
					c.pushUpdate(fmt.Sprintf("game over, %s wins", update.State.Winner))
				}
			case "response":
				if len(f) < 2 {
					continue
				}
				rr, ok := c.reqs[f[1]]
				if !ok {
					continue
				}
				delete(c.reqs, f[1])
				rr.rep <- msg
			}
		}
	}

	return nil
}

func newsLine(n game.Change) string {
	if n.Who == "" {
		return n.What
	}
	return n.Who + " " + n.What
}

func (c *client) setTurn(ts game.TurnState) {
	c.mu.Lock()
	c.turn = ts
	c.mu.Unlock()
}

func (c *client) getTurn() game.TurnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turn
}

func (c *client) pushUpdate(text string) {
	select {
	case c.updateCh <- text:
		// if ui is following
	default:
		c.updates = append(c.updates, text)
	}
}

func (c *client) sendReq(cmd string, body interface{}) chan comms.Message {
	rr := reqRep{cmd: cmd, body: body, rep: make(chan comms.Message, 1)}
	c.locCh <- rr
	return rr.rep
}

func (c *client) doPlay(command game.CommandString) {
	seq := c.getTurn().Seq
	msg := <-c.sendReq("play", game.Command{Command: command, Seq: seq})

	res := comms.PlayResponse{}
	if err := comms.Decode(msg, &res); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if res.Err != nil {
		fmt.Printf("Error: %v\n", res.Err)
		return
	}
	if res.Msg != nil {
		fmt.Printf("Result: %v\n", res.Msg)
	}
}

func (c *client) printUpdates() {
	updates := c.updates
	c.updates = nil
	for _, u := range updates {
		fmt.Println(">", u)
	}
}

func (c *client) followUpdates() {
	ctx, stop := signal.NotifyContext(context.TODO(), os.Interrupt)
	defer stop()
	for {
		select {
		case m := <-c.updateCh:
			fmt.Println(">", m)
		case <-ctx.Done():
			return
		}
	}
}

func (c *client) startUI() (func() error, error) {
	completer := rl.NewPrefixCompleter(
		rl.PcItem("say"),
		rl.PcItem("follow"),
		rl.PcItem("start"),
		rl.PcItem("state"),
		rl.PcItem("roll"),
		rl.PcItem("take",
			rl.PcItem("1"),
			rl.PcItem("2"),
			rl.PcItem("3"),
			rl.PcItem("4"),
			rl.PcItem("5"),
			rl.PcItem("w"),
		),
		rl.PcItem("stop"),
		rl.PcItem("claim"),
	)

	l, err := rl.NewEx(&rl.Config{
		Prompt:            "» ",
		HistoryFile:       "hist.txt",
		AutoComplete:      completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}

	go func() {
		defer l.Close()
		defer close(c.locCh)
		c.gameRepl(l)
	}()

	return l.Close, nil
}

func printTurn(ts game.TurnState) {
	if ts.Number < 0 {
		fmt.Printf("no game in progress\n")
		return
	}
	fmt.Printf("Player: %s\n", ts.Player)
	fmt.Printf("Dice:   %d left\n", ts.DiceLeft)
	if len(ts.LastRoll) > 0 {
		fmt.Printf("Rolled: %v\n", ts.LastRoll)
	}
	fmt.Printf("Taken:  %v\n", ts.Taken)
	fmt.Printf("Score:  %d\n", ts.Score)
	fmt.Printf("Worm:   %t\n", ts.HasWorm)
	fmt.Printf("Can:    %v\n", ts.Can)
}

func printState(state game.GameState) {
	fmt.Printf("Status: %s\n", state.Status)
	if state.Winner != "" {
		fmt.Printf("Winner: %s\n", state.Winner)
	}
	fmt.Printf("Pot:    %v\n", state.Supply)
	for _, p := range state.Players {
		fmt.Printf("  %s: %d worms, stack %v\n", p.Name, p.Worms, p.Stack)
	}
}

func (c *client) gameRepl(l *rl.Instance) {

	doPlayPrompt := func(ts game.TurnState) {
		colour := col(c.colour)
		prompt := fmt.Sprintf("%d \033%s%s|%d dice|%d pts»\033[0m ", ts.Number, colour, ts.Player, ts.DiceLeft, ts.Score)
		l.SetPrompt(prompt)
	}

	doIdlePrompt := func(ts game.TurnState) {
		colour := col(c.colour)
		prompt := fmt.Sprintf("%d \033%s»\033[0m ", ts.Number, colour)
		l.SetPrompt(prompt)
	}

	for {
		ts := c.getTurn()
		if ts.Player == c.name {
			doPlayPrompt(ts)
			if len(ts.Can) > 0 {
				fmt.Printf("Moves: %v\n", ts.Can)
			}
		} else {
			doIdlePrompt(ts)
		}

		c.printUpdates()

		line, err := l.Readline()
		if err == rl.ErrInterrupt {
			if len(line) == 0 {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			break
		}

		if line == "f" {
			line = "follow"
		} else if line == "r" {
			line = "roll"
		}

		parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
		cmd := parts[0]
		rest := ""
		if len(parts) == 2 {
			rest = parts[1]
		}

		switch cmd {
		case "say":
			msg, err := comms.Encode("text", rest)
			if err != nil {
				continue
			}
			c.upCh <- msg
		case "follow":
			c.printUpdates()
			c.followUpdates()
		case "start":
			msg := <-c.sendReq("start", nil)
			res := comms.PlayResponse{}
			if err := comms.Decode(msg, &res); err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			if res.Err != nil {
				fmt.Printf("Error: %v\n", res.Err)
				continue
			}
		case "state":
			msg := <-c.sendReq("state", nil)
			update := game.GameUpdate{}
			if err := comms.Decode(msg, &update); err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			printState(update.State)
		case "roll":
			c.doPlay("roll")
		case "take":
			var face string
			_, err := fmt.Sscan(rest, &face)
			if err != nil {
				fmt.Printf("take <face>\n")
				continue
			}
			c.doPlay(game.CommandString("take:" + face))
		case "stop":
			c.doPlay("stop")
		case "claim":
			var value int
			_, err := fmt.Sscan(rest, &value)
			if err != nil {
				fmt.Printf("claim <tile>\n")
				continue
			}
			c.doPlay(game.CommandString(fmt.Sprintf("claim:%d", value)))
		case "":
			printTurn(c.getTurn())
			continue
		default:
			fmt.Printf("unknown\n")
		}
	}
}
