package realtime

import (
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// Push topics. They mirror the per-identity queues clients subscribe to.
const (
	TopicMessages     = "messages"
	TopicReadReceipts = "read-receipts"
	TopicErrors       = "errors"
)

// Envelope is the outbound frame wrapping every pushed payload.
type Envelope struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

const shardCount = 32

type shard struct {
	mu sync.RWMutex
	// address -> session id -> session
	sessions map[string]map[string]*Session
}

// Registry maps identity addresses to their live sessions and fans pushed
// payloads out to all of them. State is sharded by address so unrelated
// identities' register/push traffic does not serialize on one lock.
type Registry struct {
	shards [shardCount]*shard
	log    *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	r := &Registry{log: log}
	for i := range r.shards {
		r.shards[i] = &shard{sessions: make(map[string]map[string]*Session)}
	}
	return r
}

func (r *Registry) shardFor(address string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(address))
	return r.shards[h.Sum32()%shardCount]
}

// Register adds the session under its identity address and starts its write
// loop.
func (r *Registry) Register(s *Session) {
	sh := r.shardFor(s.Address)
	sh.mu.Lock()
	set := sh.sessions[s.Address]
	if set == nil {
		set = make(map[string]*Session)
		sh.sessions[s.Address] = set
	}
	set[s.ID] = s
	sh.mu.Unlock()

	s.Start()
	r.log.Debug("session registered", "address", s.Address, "session", s.ID)
}

// Unregister removes the session if it is still tracked. It does not close
// the session; disconnect handling owns that.
func (r *Registry) Unregister(s *Session) {
	sh := r.shardFor(s.Address)
	sh.mu.Lock()
	if set, ok := sh.sessions[s.Address]; ok {
		delete(set, s.ID)
		if len(set) == 0 {
			delete(sh.sessions, s.Address)
		}
	}
	sh.mu.Unlock()
	r.log.Debug("session unregistered", "address", s.Address, "session", s.ID)
}

// Push delivers payload on the given topic to every live session of the
// address and reports how many sessions accepted it. Zero live sessions is a
// silent no-op: the identity is offline and will catch up on next fetch.
func (r *Registry) Push(address string, topic string, payload any) int {
	frame, err := json.Marshal(Envelope{Topic: topic, Data: payload})
	if err != nil {
		r.log.Error("encode push frame", "topic", topic, "error", err)
		return 0
	}

	sh := r.shardFor(address)
	sh.mu.RLock()
	targets := lo.Values(sh.sessions[address])
	sh.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.Send(frame); err != nil {
			r.log.Debug("push dropped", "address", address, "session", s.ID, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// SessionCount reports the number of live sessions for an address.
func (r *Registry) SessionCount(address string) int {
	sh := r.shardFor(address)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return len(sh.sessions[address])
}

// Close terminates every tracked session and clears registry state.
func (r *Registry) Close() {
	for _, sh := range r.shards {
		sh.mu.Lock()
		sessions := sh.sessions
		sh.sessions = make(map[string]map[string]*Session)
		sh.mu.Unlock()

		for _, set := range sessions {
			for _, s := range set {
				s.Close(websocket.CloseGoingAway, "server shutdown")
			}
		}
	}
}
