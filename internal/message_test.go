package internal

import (
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/horgh/irc"
)

// TestPRIVMSG covers one client sending a message to another.
func TestPRIVMSG(t *testing.T) {
	daemon, err := harnessDaemon("irc.example.org", "hunter12")
	if err != nil {
		t.Fatalf("error harnessing ircserv: %s", err)
	}
	defer daemon.stop()

	client1 := NewClient("client1", daemon.Password, "127.0.0.1", daemon.Port)
	recvChan1, sendChan1, _, err := client1.Start()
	if err != nil {
		t.Fatalf("error starting client: %s", err)
	}
	defer client1.Stop()

	client2 := NewClient("client2", daemon.Password, "127.0.0.1", daemon.Port)
	recvChan2, _, _, err := client2.Start()
	if err != nil {
		t.Fatalf("error starting client: %s", err)
	}
	defer client2.Stop()

	if waitForMessage(t, recvChan1, irc.Message{Command: "001"},
		"welcome from %s", client1.GetNick()) == nil {
		t.Fatalf("client1 did not get welcome")
	}

	if waitForMessage(t, recvChan2, irc.Message{Command: "001"},
		"welcome from %s", client2.GetNick()) == nil {
		t.Fatalf("client2 did not get welcome")
	}

	sendChan1 <- irc.Message{
		Command: "PRIVMSG",
		Params:  []string{client2.GetNick(), "hi there"},
	}

	got := waitForMessage(
		t,
		recvChan2,
		irc.Message{Command: "PRIVMSG"},
		"%s received PRIVMSG from %s", client1.GetNick(), client2.GetNick(),
	)
	if got == nil {
		t.Fatalf("client2 did not receive message from client1")
	}
	messageIsEqual(t, got, &irc.Message{
		Prefix:  fmt.Sprintf("%s!client1@127.0.0.1", client1.GetNick()),
		Command: "PRIVMSG",
		Params:  []string{client2.GetNick(), "hi there"},
	})
}

// TestWrongPassword covers the "wrong password is rejected" scenario: a
// client that sends the wrong PASS never gets past NICK/USER.
func TestWrongPassword(t *testing.T) {
	daemon, err := harnessDaemon("irc.example.org", "hunter12")
	if err != nil {
		t.Fatalf("error harnessing ircserv: %s", err)
	}
	defer daemon.stop()

	client := NewClient("baduser", "wrong-password", "127.0.0.1", daemon.Port)
	recvChan, _, _, err := client.Start()
	if err != nil {
		t.Fatalf("error starting client: %s", err)
	}
	defer client.Stop()

	got := waitForMessage(t, recvChan, irc.Message{Command: "464"},
		"464 for wrong password")
	if got == nil {
		t.Fatalf("did not receive 464 for wrong password")
	}
}

// TestJoinAndOperatorSuccession covers the operator-succession scenario: the
// channel creator is promoted operator on JOIN, and leaving promotes the
// next member.
func TestJoinAndOperatorSuccession(t *testing.T) {
	daemon, err := harnessDaemon("irc.example.org", "hunter12")
	if err != nil {
		t.Fatalf("error harnessing ircserv: %s", err)
	}
	defer daemon.stop()

	client1 := NewClient("op1", daemon.Password, "127.0.0.1", daemon.Port)
	recvChan1, sendChan1, _, err := client1.Start()
	if err != nil {
		t.Fatalf("error starting client: %s", err)
	}
	defer client1.Stop()

	if waitForMessage(t, recvChan1, irc.Message{Command: "001"}, "welcome") == nil {
		t.Fatalf("client1 did not get welcome")
	}

	sendChan1 <- irc.Message{Command: "JOIN", Params: []string{"#test"}}
	if waitForMessage(t, recvChan1, irc.Message{Command: "JOIN"}, "self JOIN") == nil {
		t.Fatalf("client1 did not see its own JOIN")
	}

	client2 := NewClient("op2", daemon.Password, "127.0.0.1", daemon.Port)
	recvChan2, sendChan2, _, err := client2.Start()
	if err != nil {
		t.Fatalf("error starting client2: %s", err)
	}
	defer client2.Stop()

	if waitForMessage(t, recvChan2, irc.Message{Command: "001"}, "welcome2") == nil {
		t.Fatalf("client2 did not get welcome")
	}
	sendChan2 <- irc.Message{Command: "JOIN", Params: []string{"#test"}}
	if waitForMessage(t, recvChan2, irc.Message{Command: "JOIN"}, "client2 JOIN") == nil {
		t.Fatalf("client2 did not see its own JOIN")
	}

	// op1 parts; op2 should be promoted operator via a broadcast MODE +o.
	sendChan1 <- irc.Message{Command: "PART", Params: []string{"#test"}}
	promo := waitForMessage(t, recvChan2, irc.Message{Command: "MODE"},
		"operator succession broadcast")
	if promo == nil {
		t.Fatalf("client2 did not see operator succession MODE")
	}
}

func waitForMessage(
	t *testing.T,
	ch <-chan irc.Message,
	want irc.Message,
	format string,
	a ...interface{},
) *irc.Message {
	for {
		select {
		case <-time.After(10 * time.Second):
			t.Logf("timeout waiting for message: %s", want)
			return nil
		case got := <-ch:
			if got.Command == want.Command {
				log.Printf("got command: %s", fmt.Sprintf(format, a...))
				return &got
			}
		}
	}
}
