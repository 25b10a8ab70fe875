package chat

import (
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestReplyMatchesKeywords(t *testing.T) {
	responder := NewResponder(fixedClock)

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "array topic", message: "How do ARRAYS work?", want: "Arrays are fundamental"},
		{name: "stack topic", message: "explain stack please", want: "A stack is a LIFO"},
		{name: "first keyword wins", message: "arrays vs linked lists", want: "Arrays are fundamental"},
		{name: "sorting topic", message: "which sort is fastest", want: "Sorting algorithms"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reply := responder.Reply(tc.message)
			if !strings.HasPrefix(reply.Content, tc.want) {
				t.Fatalf("expected reply starting %q, got %q", tc.want, reply.Content)
			}
			if reply.Role != "assistant" {
				t.Fatalf("unexpected role %q", reply.Role)
			}
		})
	}
}

func TestReplyFallsBackForUnknownTopic(t *testing.T) {
	responder := NewResponder(fixedClock)

	reply := responder.Reply("what is the meaning of life")
	if !strings.HasPrefix(reply.Content, "I can help you with Data Structures") {
		t.Fatalf("expected generic fallback, got %q", reply.Content)
	}
	if !strings.HasPrefix(reply.ID, "msg_") {
		t.Fatalf("unexpected message id %q", reply.ID)
	}
	if reply.Timestamp != "2024-03-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp %q", reply.Timestamp)
	}
}
