// Package bus carries row-hover messages between the chart and the
// components embedded next to it.
package bus

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// RowHoverType is the only message type on the bus.
const RowHoverType = "bar-chart-row-hover"

var ErrUnknownType = errors.New("bus: unknown message type")

// RowHover announces that the category with Code is hovered.
type RowHover struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

func NewRowHover(code string) RowHover {
	return RowHover{Type: RowHoverType, Code: code}
}

// Encode serializes m for an out-of-process consumer.
func (m RowHover) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses an inbound message and rejects foreign types.
func Decode(data []byte) (RowHover, error) {
	var m RowHover
	if err := json.Unmarshal(data, &m); err != nil {
		return RowHover{}, fmt.Errorf("decode bus message: %w", err)
	}
	if m.Type != RowHoverType {
		return RowHover{}, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	return m, nil
}

type Handler func(RowHover)

// Bus fans a message out to every subscriber except its sender. There is no
// acknowledgment.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]Handler
}

func New() *Bus {
	return &Bus{subs: make(map[string]Handler)}
}

// Subscribe registers fn under name, replacing a previous handler with the
// same name. The returned func unsubscribes.
func (b *Bus) Subscribe(name string, fn Handler) func() {
	b.mu.Lock()
	b.subs[name] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, name)
		b.mu.Unlock()
	}
}

// Publish delivers m to every subscriber other than from, in name order.
func (b *Bus) Publish(from string, m RowHover) {
	if m.Type == "" {
		m.Type = RowHoverType
	}
	b.mu.RLock()
	names := make([]string, 0, len(b.subs))
	for name := range b.subs {
		if name != from {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	handlers := make([]Handler, 0, len(names))
	for _, name := range names {
		handlers = append(handlers, b.subs[name])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(m)
	}
}
