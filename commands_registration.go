package main

import (
	"strings"
)

// cmdPass handles PASS <password>.
func (s *Server) cmdPass(c *Client, args string) {
	if c.Authenticated {
		s.replyAlreadyRegistered(c)
		return
	}

	password := strings.TrimSpace(args)
	if password != s.config.Password {
		s.replyInvalidPassword(c)
		return
	}

	c.Authenticated = true
}

// cmdNick handles NICK <nickname>.
func (s *Server) cmdNick(c *Client, args string) {
	nick := strings.TrimSpace(args)

	if !isValidNick(nick) {
		s.replyErroneousNick(c, nick)
		return
	}

	if existing, exists := s.nicks[nick]; exists && existing != c {
		s.replyNickInUse(c, nick)
		return
	}

	oldPrefix := ""
	hadNick := c.Nick != ""
	if hadNick {
		oldPrefix = c.nickUhost()
	}

	if c.User != "" && !c.Registered {
		s.completeRegistration(c)
	}

	if hadNick {
		delete(s.nicks, c.Nick)
	}
	c.Nick = nick
	s.nicks[nick] = c

	if hadNick {
		s.broadcastToMemberships(c, oldPrefix, "NICK "+nick)
	}
}

// cmdUser handles USER <username> 0 * :<realname>.
func (s *Server) cmdUser(c *Client, args string) {
	username, realname := parseUserArgs(args)

	if !isValidUser(username) {
		s.replyErroneousUser(c, username)
		return
	}

	if realname != "" && !isValidRealName(realname) {
		s.replyInvalidRealName(c, realname)
		return
	}

	c.User = username
	c.Real = realname

	if c.Nick != "" && !c.Registered {
		s.completeRegistration(c)
	}

	line := "USER " + args
	s.broadcastToMemberships(c, c.nickUhost(), line)
}

// parseUserArgs splits "<username> 0 * :<realname>": the first token is the
// username, and everything after the first colon is the trailing realname.
// The two middle fields are ignored; their presence is not checked.
func parseUserArgs(args string) (username, realname string) {
	fields := strings.Fields(args)
	if len(fields) > 0 {
		username = fields[0]
	}

	if i := strings.Index(args, ":"); i >= 0 {
		realname = args[i+1:]
	}

	return username, realname
}

// completeRegistration runs the welcome burst exactly once, the moment a
// connection has both PASS and (NICK, USER) in either order.
func (s *Server) completeRegistration(c *Client) {
	c.Registered = true
	s.sendWelcomeBurst(c, s.startTime, s.config.MOTD)
}

// broadcastToMemberships sends a line, using the given prefix, to every
// channel the client currently belongs to, once per distinct member: a
// member shared by two of the client's channels is only sent the line once.
func (s *Server) broadcastToMemberships(c *Client, prefix, line string) {
	seen := map[*Client]bool{}
	for _, ch := range c.Channels {
		for _, m := range ch.Members {
			if seen[m] {
				continue
			}
			seen[m] = true
			m.maybeQueueMessage([]byte(":" + prefix + " " + line))
		}
	}
}
