package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	chat "chatline/internal/pkg/chat/domain"
	identity "chatline/internal/pkg/identity/port"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// In-memory fakes implementing the repository and collaborator ports.

type fakeConversationRepo struct {
	mu     sync.Mutex
	byPair map[[2]int64]*chat.Conversation
	nextID int64
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{byPair: make(map[[2]int64]*chat.Conversation)}
}

func (r *fakeConversationRepo) ResolveOrCreate(_ context.Context, idA, idB int64) (chat.Conversation, error) {
	lo, hi := chat.CanonicalPair(idA, idB)
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.byPair[[2]int64{lo, hi}]; ok {
		return *conv, nil
	}
	r.nextID++
	now := time.Now().UTC()
	conv := &chat.Conversation{ID: r.nextID, LoID: lo, HiID: hi, CreatedAt: now, UpdatedAt: now}
	r.byPair[[2]int64{lo, hi}] = conv
	return *conv, nil
}

func (r *fakeConversationRepo) ByID(_ context.Context, id int64) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.byPair {
		if conv.ID == id {
			return *conv, nil
		}
	}
	return chat.Conversation{}, fmt.Errorf("%w: conversation %d", chat.ErrNotFound, id)
}

func (r *fakeConversationRepo) RecordActivity(_ context.Context, conversationID int64, at time.Time, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.byPair {
		if conv.ID == conversationID {
			ts := at
			conv.LastMessageTime = &ts
			conv.LastMessageSnippet = chat.Snippet(content)
			conv.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: conversation %d", chat.ErrNotFound, conversationID)
}

func (r *fakeConversationRepo) PageForUser(_ context.Context, userID int64, page, size int) ([]chat.Conversation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var convs []chat.Conversation
	for _, conv := range r.byPair {
		if conv.HasParticipant(userID) {
			convs = append(convs, *conv)
		}
	}
	sort.Slice(convs, func(i, j int) bool {
		ti, tj := convs[i].LastMessageTime, convs[j].LastMessageTime
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
	total := int64(len(convs))
	start := page * size
	if start > len(convs) {
		start = len(convs)
	}
	end := start + size
	if end > len(convs) {
		end = len(convs)
	}
	return convs[start:end], total, nil
}

func (r *fakeConversationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byPair)
}

type fakeMessageRepo struct {
	mu     sync.Mutex
	msgs   []*chat.Message
	nextID int64
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Append(_ context.Context, senderID, receiverID, conversationID int64, content string) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().UTC()
	m := &chat.Message{
		ID:             r.nextID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		ConversationID: conversationID,
		Content:        content,
		Timestamp:      now,
		ReadStatus:     false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.msgs = append(r.msgs, m)
	return *m, nil
}

func (r *fakeMessageRepo) PageByConversation(_ context.Context, conversationID int64, page, size int) ([]chat.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var msgs []chat.Message
	for _, m := range r.msgs {
		if m.ConversationID == conversationID {
			msgs = append(msgs, *m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	total := int64(len(msgs))
	start := page * size
	if start > len(msgs) {
		start = len(msgs)
	}
	end := start + size
	if end > len(msgs) {
		end = len(msgs)
	}
	return msgs[start:end], total, nil
}

func (r *fakeMessageRepo) CountUnreadForReceiver(_ context.Context, receiverID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ReceiverID == receiverID && !m.ReadStatus {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUnreadInConversation(_ context.Context, conversationID, receiverID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.ReceiverID == receiverID && !m.ReadStatus {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) MarkConversationRead(_ context.Context, conversationID, receiverID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.ReceiverID == receiverID && !m.ReadStatus {
			m.ReadStatus = true
		}
	}
	return nil
}

func (r *fakeMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

type fakeGraph struct {
	mutual map[[2]int64]bool
}

func newFakeGraph(pairs ...[2]int64) *fakeGraph {
	g := &fakeGraph{mutual: make(map[[2]int64]bool)}
	for _, p := range pairs {
		lo, hi := chat.CanonicalPair(p[0], p[1])
		g.mutual[[2]int64{lo, hi}] = true
	}
	return g
}

func (g *fakeGraph) MutualFollowers(_ context.Context, a, b int64) (bool, error) {
	lo, hi := chat.CanonicalPair(a, b)
	return g.mutual[[2]int64{lo, hi}], nil
}

type fakeDirectory struct {
	profiles map[int64]identity.Profile
}

func newFakeDirectory(profiles ...identity.Profile) *fakeDirectory {
	d := &fakeDirectory{profiles: make(map[int64]identity.Profile)}
	for _, p := range profiles {
		d.profiles[p.ID] = p
	}
	return d
}

func (d *fakeDirectory) Lookup(_ context.Context, id int64) (identity.Profile, error) {
	p, ok := d.profiles[id]
	if !ok {
		return identity.Profile{}, fmt.Errorf("%w: id %d", identity.ErrUnknownIdentity, id)
	}
	return p, nil
}

type pushRecord struct {
	Address string
	Topic   string
	Payload any
}

type fakePusher struct {
	mu       sync.Mutex
	pushes   []pushRecord
	sessions map[string]int
}

func newFakePusher() *fakePusher {
	return &fakePusher{sessions: make(map[string]int)}
}

func (p *fakePusher) Push(address, topic string, payload any) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, pushRecord{Address: address, Topic: topic, Payload: payload})
	return p.sessions[address]
}

func (p *fakePusher) recorded() []pushRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pushRecord(nil), p.pushes...)
}
