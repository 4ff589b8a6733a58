package main

// Shared fixtures for command-handler tests: a Server wired the way
// newServer would build it, minus the network listener, and helpers for
// registering clients against it without a real socket.

func newCommandTestServer() *Server {
	return &Server{
		config:    &Config{Password: "hunter12", MOTD: "Be nice."},
		clients:   map[uint64]*Client{},
		nicks:     map[string]*Client{},
		channels:  map[string]*Channel{},
		commands:  buildDispatchTable(),
		metrics:   newServerMetrics(),
		startTime: "2026/07/30 00:00:00",
	}
}

func newCommandTestClient(id uint64, ip string) *Client {
	return &Client{
		ID:        id,
		IP:        ip,
		WriteChan: make(chan []byte, 64),
		Channels:  map[string]*Channel{},
	}
}

// registerClient drives a client through PASS/NICK/USER and drains the
// resulting welcome burst, leaving the client fully registered.
func registerClient(s *Server, c *Client, nick string) {
	s.clients[c.ID] = c
	s.dispatch(c, "PASS hunter12")
	s.dispatch(c, "NICK "+nick)
	s.dispatch(c, "USER "+nick+" 0 * :"+nick+" Realname")
	drainLines(c)
}

// drainLines empties a client's outbound queue without inspecting it, for
// tests that only care about state after a setup step.
func drainLines(c *Client) {
	for {
		select {
		case <-c.WriteChan:
		default:
			return
		}
	}
}
