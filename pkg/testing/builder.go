package testing

import (
	"github.com/getmockd/transmock/pkg/message"
	"github.com/getmockd/transmock/pkg/transport"
)

// MessageBuilder builds message contexts with a fluent API.
type MessageBuilder struct {
	ctx *message.Context
}

// NewMessage starts an empty message context.
func NewMessage() *MessageBuilder {
	return &MessageBuilder{ctx: message.NewContext()}
}

// With sets a string property.
func (b *MessageBuilder) With(name, value string) *MessageBuilder {
	b.ctx.Set(name, message.String(value))
	return b
}

// WithBool sets a boolean property.
func (b *MessageBuilder) WithBool(name string, value bool) *MessageBuilder {
	b.ctx.Set(name, message.Bool(value))
	return b
}

// WithPayload sets the message body.
func (b *MessageBuilder) WithPayload(payload string) *MessageBuilder {
	b.ctx.Payload = []byte(payload)
	return b
}

// WithOriginalTransport sets every original-transport property to a value
// a live binding would carry, so none of them is neutral.
func (b *MessageBuilder) WithOriginalTransport() *MessageBuilder {
	for _, p := range transport.OriginalTransport() {
		b.ctx.Set(p.Name, liveValue(p))
	}
	return b
}

// Build returns the message context. Later builder calls do not affect it.
func (b *MessageBuilder) Build() *message.Context {
	return b.ctx.Clone()
}

func liveValue(p message.Property) message.Value {
	switch {
	case p.Value.Kind() == message.KindBool:
		return message.Bool(!p.Value.Bool())
	case p.Value.Str() == "None":
		return message.String("Transport")
	default:
		return message.String("live:" + p.Name)
	}
}
