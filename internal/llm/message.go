// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm implements the chat-completion request adapter: message and
// model types, the request envelope, and both the batched and streaming
// transports.
package llm

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}

// =============================================================================
// MESSAGE CONTENT
// =============================================================================

// Content is the polymorphic body of a message: either plain text or an
// ordered list of typed parts (text and image references). Both forms
// serialize to the shape the chat-completion API expects.
type Content interface {
	isContent()
}

// TextContent is a plain-text message body.
type TextContent struct {
	Text string
}

func (TextContent) isContent() {}

// PartsContent is a multimodal message body made of ordered typed parts.
type PartsContent struct {
	Parts []Part
}

func (PartsContent) isContent() {}

// Part is a single typed content part.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image, typically a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Type: "text", Text: text}
}

// ImagePart builds an image content part from a base64-encoded JPEG.
func ImagePart(base64JPEG string) Part {
	return Part{
		Type:     "image_url",
		ImageURL: &ImageURL{URL: "data:image/jpeg;base64," + base64JPEG},
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat message. It is a transient value passed to the
// adapter; it is never persisted.
type Message struct {
	Role    Role
	Content Content
}

// NewSystemMessage creates a system message with plain-text content.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: TextContent{Text: text}}
}

// NewUserMessage creates a user message with plain-text content.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: TextContent{Text: text}}
}

// NewAssistantMessage creates an assistant message with plain-text content.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: TextContent{Text: text}}
}

// NewUserImageMessage creates a multimodal user message: one text part
// followed by one image part per base64-encoded JPEG, in order.
func NewUserImageMessage(text string, base64JPEGs []string) Message {
	parts := make([]Part, 0, len(base64JPEGs)+1)
	parts = append(parts, TextPart(text))
	for _, img := range base64JPEGs {
		parts = append(parts, ImagePart(img))
	}
	return Message{Role: RoleUser, Content: PartsContent{Parts: parts}}
}

// MarshalJSON serializes the message as {"role", "content"} where content is
// either a JSON string or an array of part objects, depending on the
// representation. The two forms are indistinguishable to the server.
func (m Message) MarshalJSON() ([]byte, error) {
	switch c := m.Content.(type) {
	case TextContent:
		return json.Marshal(struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}{Role: string(m.Role), Content: c.Text})
	case PartsContent:
		return json.Marshal(struct {
			Role    string `json:"role"`
			Content []Part `json:"content"`
		}{Role: string(m.Role), Content: c.Parts})
	case nil:
		return json.Marshal(struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}{Role: string(m.Role)})
	default:
		return nil, fmt.Errorf("unsupported content type %T", m.Content)
	}
}
