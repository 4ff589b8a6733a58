package main

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors for internal lookups. lookupChannel/lookupNick return
// these; handlers compare with errors.Is and translate to the appropriate
// numeric reply. They are never logged as failures since they represent
// ordinary protocol conditions, not bugs.
var (
	errNoSuchChannel = errors.New("no such channel")
	errNoSuchNick    = errors.New("no such nick")
)

// lookupChannel resolves a channel by display or canonical name, or
// errNoSuchChannel.
func (s *Server) lookupChannel(name string) (*Channel, error) {
	ch, exists := s.channels[canonicalizeChannel(name)]
	if !exists {
		return nil, errNoSuchChannel
	}
	return ch, nil
}

// lookupNick resolves a client by its exact (case-sensitive) nickname, or
// errNoSuchNick.
func (s *Server) lookupNick(nick string) (*Client, error) {
	c, exists := s.nicks[nick]
	if !exists {
		return nil, errNoSuchNick
	}
	return c, nil
}

// wrapf attaches context to an error that crossed a function boundary and is
// headed for the log, not for a client. It is not used for the sentinel
// lookup errors above.
func wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}
