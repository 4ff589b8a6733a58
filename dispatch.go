package main

import "strings"

// commandHandler is the shape every verb's handler takes: the server (for
// state and replies), the client that sent the line, and the raw argument
// string following the verb (verb-specific parsing is the handler's job).
type commandHandler func(s *Server, c *Client, args string)

// buildDispatchTable constructs the verb-to-handler table once, at server
// construction. This is a literal map, not an if/else chain: the data model
// calls for "the command dispatch table mapping uppercase verbs to
// handlers" as a first-class value.
func buildDispatchTable() map[string]commandHandler {
	return map[string]commandHandler{
		"PASS": (*Server).cmdPass,
		"NICK": (*Server).cmdNick,
		"USER": (*Server).cmdUser,
		"PING": (*Server).cmdPing,
		"PONG": (*Server).cmdPing,

		"LIST": (*Server).cmdList,
		"JOIN": (*Server).cmdJoin,
		"PART": (*Server).cmdPart,
		"QUIT": (*Server).cmdQuit,
		"KICK": (*Server).cmdKick,

		"TOPIC":   (*Server).cmdTopic,
		"INVITE":  (*Server).cmdInvite,
		"PRIVMSG": (*Server).cmdPrivmsg,
		"NOTICE":  (*Server).cmdPrivmsg,

		"WHO":   (*Server).cmdWho,
		"WHOIS": (*Server).cmdWhois,
		"ISON":  (*Server).cmdIson,
		"MODE":  (*Server).cmdMode,
	}
}

// dispatch checks registration state before invoking a verb's handler: PASS
// is always allowed, NICK and USER are allowed once authenticated, and every
// other verb additionally requires full registration.
func (s *Server) dispatch(c *Client, line string) {
	verb, args := splitVerb(line)
	if verb == "" {
		s.replyUnknownCommand(c, verb)
		return
	}

	if verb != "PASS" && !c.Authenticated {
		s.replyNotRegistered(c)
		return
	}

	if verb != "PASS" && verb != "NICK" && verb != "USER" && !c.Registered {
		s.replyNotRegistered(c)
		return
	}

	handler, exists := s.commands[verb]
	if !exists {
		s.replyUnknownCommand(c, verb)
		return
	}

	s.metrics.commandsProcessed.WithLabelValues(verb).Inc()
	handler(s, c, args)
}

// splitVerb uppercases the first whitespace-delimited token of line as the
// verb and returns it along with the remainder, with all of its leading
// whitespace removed.
func splitVerb(line string) (verb, args string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return strings.ToUpper(line), ""
	}
	return strings.ToUpper(line[:i]), strings.TrimLeft(line[i+1:], " \t")
}
