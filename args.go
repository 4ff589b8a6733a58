package main

import (
	"flag"
	"fmt"
	"os"
)

// Args are the parsed command line arguments: server <port> <password>.
type Args struct {
	Port     string
	Password string
}

// getArgs parses the positional arguments: the server takes a bare port and
// password, so we read flag.Args() after Parse rather than registering named
// flags for them; -motd remains an optional flag.
func getArgs() (Args, string, error) {
	motd := flag.String("motd", "", "Path to a file containing the message of the day.")
	flag.Parse()

	rest := flag.Args()
	if len(rest) != 2 {
		return Args{}, "", fmt.Errorf("usage: %s <port> <password>", os.Args[0])
	}

	return Args{Port: rest[0], Password: rest[1]}, *motd, nil
}

func printUsage(err error) {
	fmt.Fprintln(os.Stderr, err)
	fmt.Fprintf(os.Stderr, "usage: %s [-motd file] <port> <password>\n", os.Args[0])
	flag.PrintDefaults()
}
