package chat

import (
	"time"
)

// snippetRunes is the stored preview length; longer content gets an ellipsis.
const snippetRunes = 100

// Conversation is the unique, order-independent pairing of two identities
// that have exchanged messages. The pair is stored lower id first so the
// (LoID, HiID) uniqueness constraint holds regardless of who initiated.
type Conversation struct {
	ID                 int64      `json:"id"`
	LoID               int64      `json:"loId"`
	HiID               int64      `json:"hiId"`
	LastMessageTime    *time.Time `json:"lastMessageTime"`
	LastMessageSnippet string     `json:"lastMessage"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// CanonicalPair orders two identity ids into the stored (lo, hi) form.
func CanonicalPair(a, b int64) (lo, hi int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// HasParticipant reports whether id is one of the two parties.
func (c Conversation) HasParticipant(id int64) bool {
	return c.LoID == id || c.HiID == id
}

// OtherParticipant returns the party on the far side from id. The caller
// must have established membership first.
func (c Conversation) OtherParticipant(id int64) int64 {
	if c.LoID == id {
		return c.HiID
	}
	return c.LoID
}

// Snippet truncates content to the stored preview length, appending "..."
// when anything was cut.
func Snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetRunes {
		return content
	}
	return string(runes[:snippetRunes]) + "..."
}
