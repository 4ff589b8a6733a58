package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

// Server holds every piece of global, shared state: the listener, the
// configured password, every live connection and channel, and the command
// dispatch table. There is no ambient singleton; it is threaded explicitly
// into every handler as a method receiver.
type Server struct {
	config *Config

	listener net.Listener

	// clients maps client ID to Client, covering every live connection
	// whether or not it has registered yet.
	clients map[uint64]*Client

	// nicks maps the exact (case-sensitive) nickname to its holder.
	nicks map[string]*Client

	// channels maps the canonical (lowercased, # stripped) channel name to
	// its Channel.
	channels map[string]*Channel

	commands map[string]commandHandler

	events chan Event

	nextID uint64

	logger  *log.Logger
	metrics *serverMetrics

	startTime string

	shutdown chan struct{}
	wg       sync.WaitGroup
}

func newServer(config *Config) *Server {
	return &Server{
		config:    config,
		clients:   map[uint64]*Client{},
		nicks:     map[string]*Client{},
		channels:  map[string]*Channel{},
		commands:  buildDispatchTable(),
		events:    make(chan Event, 1024),
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		metrics:   newServerMetrics(),
		startTime: time.Now().UTC().Format("2006/01/02 15:04:05"),
		shutdown:  make(chan struct{}),
	}
}

// start opens the listening socket and runs the event loop until shutdown
// is requested. It returns only on a startup failure or after an orderly
// shutdown.
func (s *Server) start() error {
	ln, err := net.Listen("tcp4", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return wrapf(err, "unable to listen on port %d", s.config.Port)
	}
	s.listener = ln

	s.logger.Printf("server: listening on port %d", s.config.Port)

	go s.acceptLoop()

	s.loop()
	return nil
}

// acceptLoop accepts connections forever and announces each one to the
// event loop, starting its reader and writer goroutines.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
			}
			s.logger.Printf("server: accept error: %s", err)
			continue
		}

		id := s.claimID()
		client := newClient(id, conn)

		s.events <- Event{Type: eventNewClient, Client: client}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			client.writeLoop(s.events, s.logger)
		}()
		go client.readLoop(s.events)
	}
}

func (s *Server) claimID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

// loop is the single event-loop goroutine. It is the only goroutine that
// ever reads or writes clients, nicks, or channels: every mutation this
// server performs happens here, one Event at a time.
func (s *Server) loop() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case <-s.shutdown:
			s.closeAllClients()
			return
		}
	}
}

// closeAllClients closes every live client's outbound channel so its writer
// goroutine flushes pending output and exits. Only the event loop goroutine
// calls this, so it never races with handleEvent's own access to clients.
func (s *Server) closeAllClients() {
	for _, c := range s.clients {
		close(c.WriteChan)
	}
}

func (s *Server) handleEvent(ev Event) {
	switch ev.Type {
	case eventNewClient:
		s.clients[ev.Client.ID] = ev.Client
		s.metrics.connections.Inc()
		s.metrics.connectionsActive.Set(float64(len(s.clients)))
		s.logger.Printf("server: new connection: %s", ev.Client)

	case eventDeadClient:
		if _, exists := s.clients[ev.Client.ID]; exists {
			s.disconnectClient(ev.Client, ev.Reason)
		}

	case eventClientMessage:
		client := ev.Client
		if _, exists := s.clients[client.ID]; !exists {
			return
		}

		client.appendInbound(ev.Data)
		client.LastActivity = time.Now()

		for _, line := range client.takeCompleteLines() {
			s.dispatch(client, line)
			if _, stillExists := s.clients[client.ID]; !stillExists {
				return
			}
		}

		if len(client.inbound) > maxInboundLineLength {
			s.disconnectClient(client, "Input line too long")
		}
	}
}

// disconnectClient tears a connection down: it broadcasts QUIT to every
// channel the client belongs to (running operator succession on each
// first), removes the client from every map, and closes its outbound
// channel so the writer goroutine flushes and exits.
func (s *Server) disconnectClient(c *Client, reason string) {
	line := "QUIT : " + reason
	seen := map[*Client]bool{}
	for canon, ch := range c.Channels {
		s.runOperatorSuccession(c, ch)

		for _, m := range ch.Members {
			if m == c || seen[m] {
				continue
			}
			seen[m] = true
			s.sendFrom(c, m, line)
		}

		ch.removeMember(c)
		if len(ch.Members) == 0 {
			delete(s.channels, canon)
		}
	}
	s.metrics.channelsActive.Set(float64(len(s.channels)))

	if c.Nick != "" {
		if holder, exists := s.nicks[c.Nick]; exists && holder == c {
			delete(s.nicks, c.Nick)
		}
	}
	delete(s.clients, c.ID)
	s.metrics.connectionsActive.Set(float64(len(s.clients)))

	close(c.WriteChan)
	s.logger.Printf("server: connection %s disconnected: %s", c, reason)
}

// stop requests an orderly shutdown: the listener is closed so the accept
// loop exits, and the event loop is told to stop. It does not wait for
// in-flight writes to flush beyond closing each client's outbound channel.
func (s *Server) stop() {
	close(s.shutdown)
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
