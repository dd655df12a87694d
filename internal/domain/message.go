package domain

// Role identifies who authored a Message in the wire-level Provider
// contract (distinct from ConversationMessage.Role, which only ever takes
// user/assistant).
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImageHandle is the opaque handle a Provider resolves to its vendor's
// inline image representation (base64, data URL, or remote URL). The core
// never interprets it directly; rasterization and storage of the bytes
// behind it are out of scope (spec.md §1).
type ImageHandle struct {
	// Path is a local filesystem path the Provider should read and encode.
	Path string
	// URL is a remote, already-hosted image location a Provider may
	// reference directly instead of reading bytes itself.
	URL string
}

func (h ImageHandle) IsZero() bool {
	return h.Path == "" && h.URL == ""
}

// Part is one element of a multimodal message's content. Exactly one of
// Text/Image is meaningful, selected by Kind.
type PartKind int

const (
	PartText PartKind = iota
	PartImage
)

type Part struct {
	Kind  PartKind
	Text  string
	Image ImageHandle
}

func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

func ImagePart(handle ImageHandle) Part {
	return Part{Kind: PartImage, Image: handle}
}

// Message is the vendor-agnostic request unit the Provider adapts to each
// wire format (spec.md §4.1, §6.2). Content is always a Part slice, even
// for text-only messages, so every Provider implementation pattern-matches
// on a single shape.
type Message struct {
	Role    Role
	Content []Part
}

func TextMessage(role Role, text string) Message {
	return Message{Role: role, Content: []Part{TextPart(text)}}
}
