package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// cmdJoin handles JOIN <name> [key].
func (s *Server) cmdJoin(c *Client, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		s.replyNotEnoughParams(c, "JOIN")
		return
	}

	raw := fields[0]
	key := ""
	if len(fields) > 1 {
		key = fields[1]
	}

	body := strings.TrimPrefix(raw, "#")
	if !isValidChannelBody(body) {
		s.replyNoSuchChannel(c, raw)
		return
	}
	name := "#" + body
	canon := canonicalizeChannel(name)

	ch, exists := s.channels[canon]
	if exists {
		if ch.hasMode(modeKey) && ch.Key != key {
			s.replyCannotJoinKey(c, name)
			return
		}
		if ch.hasMode(modeInviteOnly) && !ch.isInvited(c) {
			s.replyCannotJoinInvite(c, name)
			return
		}
		if ch.hasMode(modeLimit) && len(ch.Members) >= ch.Limit {
			s.replyCannotJoinFull(c, name)
			return
		}

		s.joinChannel(c, ch, name)
		s.replyTopicIsSet(c, name, ch.Topic)
	} else {
		ch = newChannel(name)
		if key != "" {
			ch.setMode(modeKey)
			ch.Key = key
		}
		s.channels[canon] = ch
		s.metrics.channelsActive.Set(float64(len(s.channels)))

		s.joinChannel(c, ch, name)
		s.replyTopic(c, name, ch.Topic)
	}

	s.replyNamesList(c, name, ch.namesList())
	s.replyEndOfNames(c, name)
	s.replyChannelModeIs(c, name, ch.modeString())
}

// joinChannel performs the shared mechanics of adding c to ch: membership,
// invite-list cleanup, first-member operator promotion, and the JOIN
// broadcast. It does not send the post-join topic/names/mode replies; those
// differ depending on whether the channel was just created.
func (s *Server) joinChannel(c *Client, ch *Channel, name string) {
	ch.addMember(c)
	delete(ch.Invitees, c)
	if len(ch.Members) == 1 {
		ch.Operators[c] = struct{}{}
	}
	c.Channels[canonicalizeChannel(name)] = ch

	line := "JOIN " + name
	for _, m := range ch.Members {
		s.sendFrom(c, m, line)
	}
}

// cmdPart handles PART <name>.
func (s *Server) cmdPart(c *Client, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		s.replyNotEnoughParams(c, "PART")
		return
	}
	name := fields[0]
	canon := canonicalizeChannel(name)

	ch, err := s.lookupChannel(name)
	if errors.Is(err, errNoSuchChannel) {
		s.replyNoSuchChannel(c, name)
		return
	}
	if !ch.hasMember(c) {
		s.replyNotOnChannel(c, name)
		return
	}

	s.runOperatorSuccession(c, ch)

	line := "PART " + args
	for _, m := range ch.Members {
		s.sendFrom(c, m, line)
	}

	s.removeFromChannel(c, ch, canon)
}

// runOperatorSuccession promotes a successor before the last operator
// leaves: if c is the sole operator of ch, the first other member is
// promoted and the MODE +o that names the promotion is broadcast.
func (s *Server) runOperatorSuccession(c *Client, ch *Channel) {
	if !ch.isOperator(c) || ch.operatorCount() != 1 {
		return
	}

	next := ch.firstOtherMember(c)
	if next == nil {
		return
	}

	ch.Operators[next] = struct{}{}
	line := fmt.Sprintf("MODE %s +o %s", ch.Name, next.Nick)
	for _, m := range ch.Members {
		s.sendFrom(c, m, line)
	}
}

// removeFromChannel removes c from ch's membership and, if that empties the
// channel, deletes the channel entirely.
func (s *Server) removeFromChannel(c *Client, ch *Channel, canon string) {
	ch.removeMember(c)
	delete(c.Channels, canon)

	if len(ch.Members) == 0 {
		delete(s.channels, canon)
		s.metrics.channelsActive.Set(float64(len(s.channels)))
	}
}

// cmdQuit handles QUIT [reason].
func (s *Server) cmdQuit(c *Client, args string) {
	reason := strings.TrimSpace(args)
	if reason == "" {
		reason = "Client disconnected"
	}
	s.disconnectClient(c, reason)
}

// cmdKick handles KICK <channel> <target> [reason].
func (s *Server) cmdKick(c *Client, args string) {
	fields := strings.SplitN(args, " ", 3)
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		s.replyNotEnoughParams(c, "KICK")
		return
	}
	name, targetNick := fields[0], fields[1]
	reason := targetNick
	if len(fields) == 3 {
		reason = fields[2]
	}

	canon := canonicalizeChannel(name)
	ch, err := s.lookupChannel(name)
	if errors.Is(err, errNoSuchChannel) {
		s.replyNoSuchChannel(c, name)
		return
	}
	if !ch.hasMember(c) {
		s.replyNotOnChannel(c, name)
		return
	}
	if !ch.isOperator(c) {
		s.replyNotChannelOperator(c, name)
		return
	}

	target, err := s.lookupNick(targetNick)
	if errors.Is(err, errNoSuchNick) {
		s.replyNoSuchChannel(c, name)
		return
	}
	if !ch.hasMember(target) {
		s.replyUserNotOnChannel(c, targetNick, name)
		return
	}

	line := fmt.Sprintf("KICK %s %s : %s", name, targetNick, reason)
	for _, m := range ch.Members {
		s.sendFrom(c, m, line)
	}

	s.removeFromChannel(target, ch, canon)
}

// cmdTopic handles TOPIC <channel> [topic].
func (s *Server) cmdTopic(c *Client, args string) {
	fields := strings.SplitN(args, " ", 2)
	if len(fields) == 0 || fields[0] == "" {
		s.replyNotEnoughParams(c, "TOPIC")
		return
	}
	name := fields[0]

	ch, err := s.lookupChannel(name)
	if errors.Is(err, errNoSuchChannel) {
		s.replyNoSuchChannel(c, name)
		return
	}
	if !ch.hasMember(c) {
		s.replyNotOnChannel(c, name)
		return
	}

	if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
		s.replyTopic(c, name, ch.Topic)
		return
	}

	newTopic := strings.TrimPrefix(fields[1], ":")
	if ch.hasMode(modeTopicProtected) && !ch.isOperator(c) {
		s.replyNotChannelOperator(c, name)
		return
	}

	ch.Topic = newTopic
	line := fmt.Sprintf("TOPIC %s : %s", name, newTopic)
	for _, m := range ch.Members {
		s.sendFrom(c, m, line)
	}
}

// cmdInvite handles INVITE <target> <channel>.
func (s *Server) cmdInvite(c *Client, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		s.replyNotEnoughParams(c, "INVITE")
		return
	}
	targetNick, name := fields[0], fields[1]

	ch, err := s.lookupChannel(name)
	if errors.Is(err, errNoSuchChannel) {
		s.replyNoSuchChannel(c, name)
		return
	}
	if !ch.hasMember(c) {
		s.replyNotOnChannel(c, name)
		return
	}

	target, err := s.lookupNick(targetNick)
	if err != nil {
		s.replyNoSuchTarget(c, targetNick)
		return
	}
	if ch.hasMember(target) {
		s.replyAlreadyOnChannel(c, targetNick, name)
		return
	}

	ch.Invitees[target] = struct{}{}
	s.sendFrom(c, target, fmt.Sprintf("INVITE %s %s", targetNick, name))
}

// cmdList handles LIST.
func (s *Server) cmdList(c *Client, args string) {
	s.replyListStart(c)
	for _, ch := range s.channels {
		if ch.hasMode(modeSecret) && !ch.hasMember(c) {
			continue
		}
		s.replyList(c, ch.Name, len(ch.Members), ch.Topic)
	}
	s.replyListEnd(c)
}

// cmdPrivmsg handles PRIVMSG and NOTICE: <target> :<message>.
func (s *Server) cmdPrivmsg(c *Client, args string) {
	verb := "PRIVMSG"
	fields := strings.SplitN(args, " ", 2)
	target := fields[0]
	if target == "" {
		s.replyNoRecipient(c, verb)
		return
	}

	var message string
	if len(fields) == 2 {
		message = strings.TrimPrefix(fields[1], ":")
	}
	if message == "" {
		s.replyNoTextToSend(c, verb)
		return
	}

	if isChannelName(target) {
		canon := canonicalizeChannel(target)
		ch, exists := s.channels[canon]
		if !exists {
			s.replyNoSuchTarget(c, target)
			return
		}
		if !ch.hasMember(c) {
			s.replyCannotSendToChannel(c, target)
			return
		}
		if ch.hasMode(modeModerated) && !ch.isOperator(c) && !ch.isVoiced(c) {
			s.replyCannotSendToChannel(c, target)
			return
		}

		line := fmt.Sprintf("PRIVMSG %s :%s", target, message)
		for _, m := range ch.Members {
			if m == c {
				continue
			}
			s.sendFrom(c, m, line)
		}
		return
	}

	to, exists := s.nicks[target]
	if !exists {
		s.replyNoSuchTarget(c, verb)
		return
	}
	s.sendFrom(c, to, fmt.Sprintf("PRIVMSG %s :%s", target, message))
}

// cmdWho handles WHO <channel>.
func (s *Server) cmdWho(c *Client, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		s.replyNoTargetGiven(c, "WHO")
		return
	}
	name := fields[0]

	ch, err := s.lookupChannel(name)
	if errors.Is(err, errNoSuchChannel) {
		s.replyNoSuchChannel(c, name)
		return
	}

	for _, m := range ch.Members {
		flags := "H"
		if ch.isOperator(m) {
			flags += "@"
		}
		s.replyWho(c, name, m.User, m.IP, m.Nick, flags, m.Real)
	}
	s.replyEndOfWho(c, name)
}

// cmdWhois handles WHOIS <nick>.
func (s *Server) cmdWhois(c *Client, args string) {
	target := strings.Fields(args)
	if len(target) == 0 {
		s.replyNoTargetGiven(c, "WHOIS")
		return
	}

	who, err := s.lookupNick(target[0])
	if err != nil {
		s.replyNoSuchTarget(c, target[0])
		return
	}

	s.replyWhois(c, who.Nick, who.User, who.IP, who.Real)
}

// cmdIson handles ISON <nick>.... Every supplied token is looked up
// independently and echoed back whether or not it resolves to an online
// nick.
func (s *Server) cmdIson(c *Client, args string) {
	var resolved []string
	for _, nick := range strings.Fields(args) {
		if who, exists := s.nicks[nick]; exists {
			resolved = append(resolved, who.Nick)
		} else {
			resolved = append(resolved, nick)
		}
	}
	s.replyIson(c, strings.Join(resolved, " "))
}

// cmdPing handles PING and PONG by echoing a PONG back with the same
// arguments; this is a bare command echo, not a numeric reply.
func (s *Server) cmdPing(c *Client, args string) {
	c.maybeQueueMessage([]byte(serverPrefix + "PONG " + args))
}

// cmdMode handles MODE <target> [<modechange> [<modeargs>]].
func (s *Server) cmdMode(c *Client, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		s.replyNotEnoughParams(c, "MODE")
		return
	}
	name := fields[0]

	ch, err := s.lookupChannel(name)
	if errors.Is(err, errNoSuchChannel) {
		s.replyNoSuchChannel(c, name)
		return
	}

	if len(fields) == 1 {
		s.replyChannelModeIs(c, name, ch.modeString())
		return
	}

	if !ch.hasMember(c) || !ch.isOperator(c) {
		s.replyNotChannelOperator(c, name)
		return
	}

	change := fields[1]
	modeArg := ""
	if len(fields) > 2 {
		modeArg = fields[2]
	}

	add := true
	switch change[0] {
	case '+':
		change = change[1:]
	case '-':
		add = false
		change = change[1:]
	}

	if len(change) != 1 {
		s.replyMalformedMode(c, "MODE")
		return
	}
	letter := channelMode(change[0])

	broadcastArg := modeArg

	switch letter {
	case modeInviteOnly, modeModerated, modeTopicProtected, modeSecret:
		if add {
			ch.setMode(letter)
		} else {
			ch.clearMode(letter)
		}

	case modeKey:
		if add {
			if modeArg == "" {
				s.replyNotEnoughParams(c, "MODE")
				return
			}
			ch.setMode(modeKey)
			ch.Key = modeArg
			broadcastArg = "********"
		} else {
			ch.clearMode(modeKey)
			ch.Key = ""
		}

	case modeLimit:
		if add {
			if modeArg == "" || !isDigits(modeArg) {
				s.replyMalformedMode(c, "MODE")
				return
			}
			limit, err := strconv.Atoi(modeArg)
			if err != nil {
				s.replyMalformedMode(c, "MODE")
				return
			}
			ch.setMode(modeLimit)
			ch.Limit = limit
		} else {
			ch.clearMode(modeLimit)
			ch.Limit = 0
		}

	case channelMode('o'), channelMode('v'):
		if modeArg == "" {
			s.replyNotEnoughParams(c, "MODE")
			return
		}
		target, exists := s.nicks[modeArg]
		if !exists {
			s.replyNoSuchTarget(c, "MODE")
			return
		}
		if !ch.hasMember(target) {
			s.replyUserNotOnChannel(c, modeArg, name)
			return
		}
		set := ch.Operators
		if letter == channelMode('v') {
			set = ch.Voiced
		}
		if add {
			set[target] = struct{}{}
		} else {
			delete(set, target)
		}

	default:
		s.replyUnknownMode(c, "MODE")
		return
	}

	sign := "+"
	if !add {
		sign = "-"
	}
	line := fmt.Sprintf("MODE %s %s%c %s", name, sign, letter, broadcastArg)
	line = strings.TrimRight(line, " ")
	for _, m := range ch.Members {
		s.sendFrom(c, m, line)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
