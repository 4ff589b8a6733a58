package main

import "time"

// channelMode is a single channel mode bit.
type channelMode byte

const (
	modeInviteOnly     channelMode = 'i'
	modeModerated      channelMode = 'm'
	modeTopicProtected channelMode = 't'
	modeSecret         channelMode = 's'
	modeKey            channelMode = 'k'
	modeLimit          channelMode = 'l'
)

// channelModeLetters lists every flag mode in the fixed order used when
// rendering a mode string. k and l contribute a letter too but carry an
// argument, so they're appended separately by modeString.
var channelModeLetters = []channelMode{modeInviteOnly, modeModerated,
	modeTopicProtected, modeSecret}

// Channel holds everything to do with a channel: membership, modes,
// invitees, topic, and the operator/voice sets.
type Channel struct {
	// Name is the display name, including the leading #, in the casing it was
	// created with.
	Name string

	Topic string

	// Key is the password required to join when modeKey is set. Blank
	// otherwise.
	Key string

	// Limit is the member cap enforced when modeLimit is set.
	Limit int

	Modes map[channelMode]struct{}

	// Members in insertion order. Membership itself is Members; the other
	// sets below are subsets of it (Invitees excepted).
	Members []*Client

	Operators map[*Client]struct{}
	Voiced    map[*Client]struct{}
	Invitees  map[*Client]struct{}

	// TS is the channel's creation time, carried for parity with the
	// federation-flavored Channel this type descends from even though this
	// server never propagates it anywhere.
	TS int64
}

func newChannel(name string) *Channel {
	return &Channel{
		Name:      name,
		Topic:     "No topic",
		Modes:     map[channelMode]struct{}{},
		Operators: map[*Client]struct{}{},
		Voiced:    map[*Client]struct{}{},
		Invitees:  map[*Client]struct{}{},
		TS:        time.Now().Unix(),
	}
}

func (ch *Channel) hasMode(m channelMode) bool {
	_, ok := ch.Modes[m]
	return ok
}

func (ch *Channel) setMode(m channelMode) {
	ch.Modes[m] = struct{}{}
}

func (ch *Channel) clearMode(m channelMode) {
	delete(ch.Modes, m)
}

func (ch *Channel) hasMember(c *Client) bool {
	for _, m := range ch.Members {
		if m == c {
			return true
		}
	}
	return false
}

func (ch *Channel) isOperator(c *Client) bool {
	_, ok := ch.Operators[c]
	return ok
}

func (ch *Channel) isVoiced(c *Client) bool {
	_, ok := ch.Voiced[c]
	return ok
}

func (ch *Channel) isInvited(c *Client) bool {
	_, ok := ch.Invitees[c]
	return ok
}

func (ch *Channel) addMember(c *Client) {
	ch.Members = append(ch.Members, c)
}

// removeMember removes c from the membership and every privilege set. It
// does not run operator succession; callers that need succession must run
// it first, while c is still a member.
func (ch *Channel) removeMember(c *Client) {
	for i, m := range ch.Members {
		if m == c {
			ch.Members = append(ch.Members[:i], ch.Members[i+1:]...)
			break
		}
	}
	delete(ch.Operators, c)
	delete(ch.Voiced, c)
	delete(ch.Invitees, c)
}

func (ch *Channel) operatorCount() int {
	return len(ch.Operators)
}

// firstOtherMember returns the first member in insertion order that is not
// c, for operator succession. Returns nil if there is none.
func (ch *Channel) firstOtherMember(c *Client) *Client {
	for _, m := range ch.Members {
		if m != c {
			return m
		}
	}
	return nil
}

// modeString renders the channel's current modes as "+xyz[ args]", in the
// fixed order flags, then k, then l, matching the order MODE with no
// arguments reports them.
func (ch *Channel) modeString() string {
	s := "+"
	for _, m := range channelModeLetters {
		if ch.hasMode(m) {
			s += string(m)
		}
	}

	args := ""
	if ch.hasMode(modeKey) {
		s += string(modeKey)
		args += " " + ch.Key
	}
	if ch.hasMode(modeLimit) {
		s += string(modeLimit)
	}

	return s + args
}

// namesList renders the space-separated nick list for RPL_NAMREPLY (353),
// prefixing operators with @ and voiced members with +.
func (ch *Channel) namesList() string {
	s := ""
	for i, m := range ch.Members {
		if i > 0 {
			s += " "
		}
		if ch.isOperator(m) {
			s += "@"
		} else if ch.isVoiced(m) {
			s += "+"
		}
		s += m.Nick
	}
	return s
}
