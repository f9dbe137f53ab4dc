package sse

import (
	"strings"
	"testing"
	"time"
)

func recvMsg(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Errorf("clients = %d, want 1", n)
	}

	b.Publish(Event{Type: "test", Data: map[string]string{"k": "v"}})
	msg := recvMsg(t, ch)
	if !strings.Contains(msg, "event: test") || !strings.Contains(msg, `"k":"v"`) {
		t.Errorf("msg = %q", msg)
	}

	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("clients after unsubscribe = %d, want 0", n)
	}
}

func TestPublishScheduleEvent(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()

	b.PublishScheduleEvent("process.updated", "2025年12月号", "A-6")

	msg := recvMsg(t, ch)
	if !strings.Contains(msg, "event: process.updated") {
		t.Errorf("msg = %q, want process.updated", msg)
	}
	if !strings.Contains(msg, "2025年12月号") || !strings.Contains(msg, "A-6") {
		t.Errorf("msg = %q, want issue and process id", msg)
	}

	// First schedule event also triggers a board refresh.
	msg = recvMsg(t, ch)
	if !strings.Contains(msg, "event: board.updated") {
		t.Errorf("msg = %q, want board.updated", msg)
	}
}

func TestBoardUpdateThrottle(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()

	b.PublishScheduleEvent("process.updated", "2025年12月号", "A-1")
	b.PublishScheduleEvent("process.updated", "2025年12月号", "A-2")

	var boards int
	deadline := time.After(1 * time.Second)
loop:
	for {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), "event: board.updated") {
				boards++
			}
		case <-deadline:
			break loop
		}
	}
	if boards != 1 {
		t.Errorf("board.updated count = %d, want 1 (throttled)", boards)
	}
}

func TestIssueCreatedEventOmitsProcess(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()

	b.PublishScheduleEvent("issue.created", "2025年12月号", "")
	msg := recvMsg(t, ch)
	if strings.Contains(msg, "process_id") {
		t.Errorf("msg = %q, issue-level event should not carry a process id", msg)
	}
}

func TestCloseShutsDownClients(t *testing.T) {
	b := NewBroker(time.Hour)
	ch := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel, got event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client channel not closed on broker close")
	}

	// All operations are safe after close.
	b.Publish(Event{Type: "test"})
	b.PublishScheduleEvent("process.updated", "x", "y")
	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("clients = %d, want 0", n)
	}
	b.Close()
}
