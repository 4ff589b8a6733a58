/*
 * IRC daemon.
 */
package main

import (
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	log.SetFlags(0)

	args, motdPath, err := getArgs()
	if err != nil {
		printUsage(err)
		os.Exit(1)
	}

	config, err := parseConfig(args.Port, args.Password)
	if err != nil {
		printUsage(err)
		os.Exit(1)
	}

	if motdPath != "" {
		data, err := ioutil.ReadFile(motdPath)
		if err != nil {
			log.Fatalf("unable to read motd file: %s", err)
		}
		config.MOTD = string(data)
	}

	// Writes to a peer that has already closed its end of the connection
	// raise EPIPE, not SIGPIPE, through Go's net package, so this is a no-op
	// safety net in practice. It costs nothing to keep: a SIGPIPE from some
	// other descriptor should never be allowed to kill a network daemon.
	signal.Ignore(syscall.SIGPIPE)

	server := newServer(config)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("server: received %s, shutting down", sig)
		server.stop()
	}()

	if err := server.start(); err != nil {
		log.Fatal(err)
	}

	log.Printf("server: shutdown cleanly")
}
