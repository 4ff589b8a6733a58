package main

import "fmt"

// serverName is the literal server identity used in every server-originated
// prefix and in welcome-burst text.
const serverName = "ircserv"

// serverPrefix is the literal prefix every numeric reply and server notice
// carries. Note the trailing space: callers append it directly in front of
// the rest of the line.
const serverPrefix = ":" + serverName + " "

// send writes a single pre-built line (without prefix, without CR-LF) to the
// client's outbound queue, prefixed with the server's identity.
func (s *Server) send(c *Client, line string) {
	c.maybeQueueMessage([]byte(serverPrefix + line))
}

// sendFrom writes a line originated by another client (a broadcast), using
// that client's nick!user@host prefix instead of the server's.
func (s *Server) sendFrom(from *Client, to *Client, line string) {
	to.maybeQueueMessage([]byte(":" + from.nickUhost() + " " + line))
}

// replyNick resolves the nick field numerics are addressed to: the client's
// current nick, or "*" for a client that hasn't registered a nick yet, per
// RFC 2812's convention for unregistered clients.
func replyNick(c *Client) string {
	if c.Nick != "" {
		return c.Nick
	}
	return "*"
}

// The following build the exact, non-uniform wire text for each numeric
// this server emits. Some carry the requester's nick before the colon, some
// carry a different field (the bad verb, the bad nick), and a few carry no
// colon at all. Each function builds the literal wire format for one numeric
// reply from RFC 1459/2812.

func (s *Server) replyAlreadyRegistered(c *Client) {
	s.send(c, "462 You may not reregister")
}

func (s *Server) replyInvalidPassword(c *Client) {
	s.send(c, "464 Invalid password")
}

func (s *Server) replyNotRegistered(c *Client) {
	s.send(c, "451 : You have not registered")
}

func (s *Server) replyUnknownCommand(c *Client, verb string) {
	s.send(c, fmt.Sprintf("421 %s : Unknown command", verb))
}

func (s *Server) replyErroneousNick(c *Client, nick string) {
	s.send(c, fmt.Sprintf("432 %s : Erroneous nickname", nick))
}

func (s *Server) replyNickInUse(c *Client, nick string) {
	s.send(c, fmt.Sprintf("433 %s : Nickname is already in use", nick))
}

func (s *Server) replyErroneousUser(c *Client, user string) {
	s.send(c, fmt.Sprintf("432 %s : Erroneous username", user))
}

func (s *Server) replyInvalidRealName(c *Client, real string) {
	s.send(c, fmt.Sprintf("501 %s : Invalid realname", real))
}

func (s *Server) replyNoSuchChannel(c *Client, name string) {
	s.send(c, fmt.Sprintf("403 %s : No such channel", name))
}

func (s *Server) replyNoSuchTarget(c *Client, verbOrTarget string) {
	s.send(c, fmt.Sprintf("401 %s : No such target", verbOrTarget))
}

func (s *Server) replyNotOnChannel(c *Client, name string) {
	s.send(c, fmt.Sprintf("442 %s : You're not on that channel", name))
}

func (s *Server) replyNotChannelOperator(c *Client, name string) {
	s.send(c, fmt.Sprintf("482 %s : You're not channel operator", name))
}

func (s *Server) replyUserNotOnChannel(c *Client, target, channel string) {
	s.send(c, fmt.Sprintf("441 %s %s : They aren't on that channel", target, channel))
}

func (s *Server) replyAlreadyOnChannel(c *Client, target, channel string) {
	s.send(c, fmt.Sprintf("443 %s %s : is already on channel", target, channel))
}

func (s *Server) replyNotEnoughParams(c *Client, verb string) {
	s.send(c, fmt.Sprintf("461 %s : Not enough parameters", verb))
}

func (s *Server) replyCannotSendToChannel(c *Client, channel string) {
	s.send(c, fmt.Sprintf("404 %s : Cannot send to channel", channel))
}

func (s *Server) replyNoRecipient(c *Client, verb string) {
	s.send(c, fmt.Sprintf("411 %s : No recipient given", verb))
}

func (s *Server) replyNoTextToSend(c *Client, verb string) {
	s.send(c, fmt.Sprintf("412 %s : No text to send", verb))
}

func (s *Server) replyNoTargetGiven(c *Client, verb string) {
	s.send(c, fmt.Sprintf("431 %s : No target given", verb))
}

func (s *Server) replyCannotJoinKey(c *Client, channel string) {
	s.send(c, fmt.Sprintf("475 %s : Cannot join channel (+k)", channel))
}

func (s *Server) replyCannotJoinInvite(c *Client, channel string) {
	s.send(c, fmt.Sprintf("473 %s : Cannot join channel (+i)", channel))
}

func (s *Server) replyCannotJoinFull(c *Client, channel string) {
	s.send(c, fmt.Sprintf("471 %s : Cannot join channel (+l)", channel))
}

func (s *Server) replyMalformedMode(c *Client, verb string) {
	s.send(c, fmt.Sprintf("472 %s : malformatted mode", verb))
}

func (s *Server) replyUnknownMode(c *Client, verb string) {
	s.send(c, fmt.Sprintf("472 %s : Unknown mode", verb))
}

func (s *Server) replyTopic(c *Client, channel, topic string) {
	s.send(c, fmt.Sprintf("331 %s %s : %s", replyNick(c), channel, topic))
}

func (s *Server) replyTopicIsSet(c *Client, channel, topic string) {
	s.send(c, fmt.Sprintf("332 %s %s : %s", replyNick(c), channel, topic))
}

func (s *Server) replyNamesList(c *Client, channel, names string) {
	s.send(c, fmt.Sprintf("353 %s = %s : %s", replyNick(c), channel, names))
}

func (s *Server) replyEndOfNames(c *Client, channel string) {
	s.send(c, fmt.Sprintf("366 %s %s : End of /NAMES list", replyNick(c), channel))
}

func (s *Server) replyChannelModeIs(c *Client, channel, modes string) {
	s.send(c, fmt.Sprintf("324 %s %s %s", replyNick(c), channel, modes))
}

func (s *Server) replyListStart(c *Client) {
	s.send(c, fmt.Sprintf("321 %s Channel : Users Name", replyNick(c)))
}

func (s *Server) replyList(c *Client, channel string, count int, topic string) {
	s.send(c, fmt.Sprintf("322 %s %s %d : %s", replyNick(c), channel, count, topic))
}

func (s *Server) replyListEnd(c *Client) {
	s.send(c, fmt.Sprintf("323 %s : End of /LIST", replyNick(c)))
}

func (s *Server) replyWho(c *Client, channel, user, host, nick, flags, real string) {
	s.send(c, fmt.Sprintf("352 %s %s %s %s * %s %s :0 %s", replyNick(c),
		channel, user, host, nick, flags, real))
}

func (s *Server) replyEndOfWho(c *Client, channel string) {
	s.send(c, fmt.Sprintf("315 %s %s : End of /WHO list", replyNick(c), channel))
}

func (s *Server) replyWhois(c *Client, target, user, host, real string) {
	s.send(c, fmt.Sprintf("311 %s %s %s %s * : %s", replyNick(c), target,
		user, host, real))
}

func (s *Server) replyIson(c *Client, nicks string) {
	s.send(c, fmt.Sprintf("303 %s : %s", replyNick(c), nicks))
}

// Welcome burst: the 00x/37x numerics sent once a client completes
// registration.

func (s *Server) sendWelcomeBurst(c *Client, startTime, motd string) {
	nick := replyNick(c)
	s.send(c, fmt.Sprintf("001 %s : Welcome to the ircserv Network, %s", nick, nick))
	s.send(c, fmt.Sprintf("002 %s : Your host is %s, running version 1.0", nick, serverName))
	s.send(c, fmt.Sprintf("003 %s : This server was created %s", nick, startTime))
	s.send(c, fmt.Sprintf("004 %s : %s 1.0 o o", nick, serverName))
	s.send(c, fmt.Sprintf("005 %s : CHANMODES=s,k,l,i,t :are supported by this server", nick))
	s.send(c, fmt.Sprintf("375 %s : - %s Message of the day - ", nick, serverName))
	for _, line := range motdLines(motd) {
		s.send(c, fmt.Sprintf("372 %s : - %s", nick, line))
	}
	s.send(c, fmt.Sprintf("376 %s : End of /MOTD command.", nick))
}
