// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import "github.com/tochemey/mailhub/address"

// Message is the envelope delivered to React. The payload is opaque to the
// hub. Messages are immutable: every send stamps a copy, so one Message can be
// sent to several recipients without sharing mutable state.
type Message struct {
	payload any
	sender  *address.Address
	replyTo *address.Address
}

// NewMessage creates a message carrying payload with no sender and no reply-to.
func NewMessage(payload any) *Message {
	return &Message{payload: payload}
}

// Payload returns the message content
func (m *Message) Payload() any {
	return m.payload
}

// Sender returns the address of the actor that sent the message, or
// address.NoSender() when it was sent from outside any actor.
func (m *Message) Sender() *address.Address {
	if m.sender == nil {
		return address.NoSender()
	}
	return m.sender
}

// ReplyTo returns the address the handler of this message should answer to.
// It defaults to the sender at send time and is kept when the message is
// relayed.
func (m *Message) ReplyTo() *address.Address {
	if m.replyTo == nil {
		return address.NoSender()
	}
	return m.replyTo
}

// WithReplyTo returns a copy of the message whose reply-to is addr.
func (m *Message) WithReplyTo(addr *address.Address) *Message {
	clone := *m
	clone.replyTo = addr
	return &clone
}

// stamp returns the copy that is actually delivered.
func (m *Message) stamp(from *address.Address) *Message {
	clone := *m
	clone.sender = from
	if clone.replyTo.IsNoSender() {
		clone.replyTo = from
	}
	return &clone
}

func (m *Message) relay(from *address.Address) *Message {
	clone := *m
	clone.sender = from
	return &clone
}
