package main

import (
	"flag"
	"fmt"
	"os"

	"wormpot/client"
)

func main() {
	server := flag.String("server", "localhost:1234", "game server tcp address")
	api := flag.String("api", "http://localhost:1235", "game server web address")
	room := flag.String("room", "", "room to join")
	code := flag.String("code", "", "connect code from an earlier join")
	name := flag.String("name", "", "player name")
	colour := flag.String("colour", "red", "player colour")
	flag.Parse()

	if *code == "" {
		if *room == "" || *name == "" {
			fmt.Fprintf(os.Stderr, "need either -code, or -room and -name to join with\n")
			os.Exit(2)
		}
		c, err := client.Join(*api, *room, *name, *colour)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("joined, connect code: %s\n", c)
		*code = c
	}

	c := client.NewClient(*server, *code, *name, *colour)
	if err := c.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
