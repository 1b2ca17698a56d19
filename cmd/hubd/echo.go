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

package main

import (
	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/box"
	"github.com/tochemey/mailhub/server"
)

// echo answers HTTP requests with what they carried and replies to any other
// message with its payload when a reply-to is set. A reply that cannot be
// delivered is logged and dropped.
func echo(ctx *actor.Context, msg *actor.Message) error {
	var reply any
	switch payload := msg.Payload().(type) {
	case *server.Request:
		reply = box.Map{
			"worker": ctx.Self().String(),
			"method": payload.Method.String(),
			"path":   payload.Path(),
			"body":   payload.Body,
		}
	default:
		ctx.Logger().Debugf("%s received %v", ctx.Self().String(), payload)
		if msg.ReplyTo().IsNoSender() {
			return nil
		}
		reply = payload
	}

	if err := ctx.Reply(reply); err != nil {
		ctx.Logger().Warnf("failed to reply to %s: %v", msg.ReplyTo().String(), err)
	}
	return nil
}
