package chatmodel

import "slices"

// History is an ordered, append-only conversation owned by a single request.
// It is not safe for concurrent use.
type History struct {
	messages []Message
}

// NewHistory returns History that starts with the provided messages.
func NewHistory(messages ...Message) *History {
	return &History{messages: slices.Clone(messages)}
}

// Append adds messages to the end of the conversation.
func (h *History) Append(messages ...Message) {
	h.messages = append(h.messages, messages...)
}

// Messages returns a copy of the conversation.
func (h *History) Messages() []Message {
	return slices.Clone(h.messages)
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.messages)
}

// Last returns the last message, or false if the conversation is empty.
func (h *History) Last() (Message, bool) {
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}
