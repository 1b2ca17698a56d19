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

package router

import (
	"fmt"

	"github.com/tochemey/mailhub/actor"
	"github.com/tochemey/mailhub/address"
	"github.com/tochemey/mailhub/hash"
)

// KeyFunc extracts the routing key of a message.
type KeyFunc func(msg *actor.Message) string

// ConsistentHash routes messages with the same key to the same member as long
// as the pool does not change.
type ConsistentHash struct {
	*members
	key    KeyFunc
	hasher hash.Hasher
}

// enforce compilation error
var _ Strategy = (*ConsistentHash)(nil)

// NewConsistentHash creates an instance of ConsistentHash. When key is nil the
// formatted payload is used as the routing key.
func NewConsistentHash(key KeyFunc, addrs ...*address.Address) *ConsistentHash {
	if key == nil {
		key = func(msg *actor.Message) string {
			return fmt.Sprint(msg.Payload())
		}
	}

	return &ConsistentHash{
		members: newMembers(addrs),
		key:     key,
		hasher:  hash.DefaultHasher(),
	}
}

// Recipient returns the member owning the key of msg.
func (x *ConsistentHash) Recipient(msg *actor.Message) *address.Address {
	code := x.hasher.HashCode([]byte(x.key(msg)))

	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(x.addrs) == 0 {
		return nil
	}
	return x.addrs[code%uint64(len(x.addrs))]
}
