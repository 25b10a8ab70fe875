// Package chat answers study questions from a fixed topic table, standing in
// for the AI-backed chat endpoint of the real backend.
package chat

import (
	"fmt"
	"strings"
	"time"
)

// Message is one chat exchange entry.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

const fallbackReply = "I can help you with Data Structures and Algorithms! Ask me about arrays, linked lists, stacks, queues, trees, graphs, sorting, or searching algorithms."

// topicReplies maps a keyword to its canned explanation. Order matters:
// the first keyword found in the lowercased message wins.
var topicReplies = []struct {
	keyword string
	reply   string
}{
	{"array", "Arrays are fundamental data structures that store elements in contiguous memory locations. They provide O(1) access time for elements by index, making them efficient for random access operations."},
	{"linked", "Linked lists are linear data structures where elements are stored in nodes, with each node pointing to the next. They excel at insertions and deletions but have O(n) access time."},
	{"stack", "A stack is a LIFO (Last-In-First-Out) data structure. Common operations include push, pop, and peek, all with O(1) time complexity."},
	{"queue", "A queue is a FIFO (First-In-First-Out) data structure. It supports enqueue and dequeue operations, useful for BFS traversal and task scheduling."},
	{"tree", "Trees are hierarchical data structures with a root node and child nodes. Binary trees, BSTs, and balanced trees like AVL and Red-Black trees are common variants."},
	{"graph", "Graphs consist of vertices and edges, representing relationships between objects. They can be directed or undirected, weighted or unweighted."},
	{"sort", "Sorting algorithms arrange elements in order. Common ones include QuickSort (O(n log n) average), MergeSort (O(n log n) guaranteed), and HeapSort."},
	{"search", "Searching algorithms find elements in data structures. Binary search achieves O(log n) on sorted arrays, while linear search is O(n)."},
}

// Responder produces assistant replies.
type Responder struct {
	clock func() time.Time
}

// NewResponder constructs a Responder; a nil clock defaults to time.Now.
func NewResponder(clock func() time.Time) *Responder {
	if clock == nil {
		clock = time.Now
	}
	return &Responder{clock: clock}
}

// Reply matches the lowercased message against the topic table and returns
// the assistant message. Unmatched messages get the generic prompt; the
// mock path never fails.
func (r *Responder) Reply(message string) Message {
	lowered := strings.ToLower(message)
	content := fallbackReply
	for _, topic := range topicReplies {
		if strings.Contains(lowered, topic.keyword) {
			content = topic.reply
			break
		}
	}

	now := r.clock()
	return Message{
		ID:        fmt.Sprintf("msg_%d", now.UnixMilli()),
		Role:      "assistant",
		Content:   content,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
