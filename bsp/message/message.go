// Package message defines the queues vertices receive their messages
// through.
package message

// Message is a value exchanged between vertices. Type names the kind of
// message so receivers can tell apart messages sharing a queue.
type Message interface {
	Type() string
}

// Queue buffers the messages addressed to a single vertex. Enqueue may be
// called concurrently; a queue is drained by one worker at a time.
type Queue interface {
	Enqueue(msg Message) error

	// PendingMessages reports whether the queue holds any message.
	PendingMessages() bool

	// DiscardMessages drops every buffered message.
	DiscardMessages() error

	// Messages returns an iterator that dequeues the buffered messages.
	Messages() Iterator

	Close() error
}

// Iterator walks the messages of a Queue. Next returns false once the queue
// is drained or an error occurred; Error tells the two apart.
type Iterator interface {
	Next() bool
	Message() Message
	Error() error
}

// QueueFactory creates a Queue for each vertex added to a graph.
type QueueFactory func() Queue
