package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/segmentio/ksuid"

	"solace/pkg/emotion"
	"solace/pkg/inference"
	"solace/pkg/persona"
	"solace/pkg/utils"
)

// ErrNotFound is returned when a conversation id is not active.
var ErrNotFound = errors.New("conversation not found")

// ErrExists is returned when Start is called with an id that is already
// active and force was not set.
var ErrExists = errors.New("conversation already exists")

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser    Speaker = "user"
	SpeakerPersona Speaker = "persona"
)

type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Origin preserves the first sharing a conversation was created around.
type Origin struct {
	Text     string   `json:"text"`
	Emotions []string `json:"emotions"`
}

// Conversation is owned exclusively by the Manager. History strictly
// alternates user/persona turns, so its length is always even and
// TurnCount is always half of it.
type Conversation struct {
	ID           string          `json:"id"`
	Persona      persona.Persona `json:"persona"`
	Origin       Origin          `json:"origin"`
	History      []Turn          `json:"history"`
	TurnCount    int             `json:"turn_count"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActiveAt time.Time       `json:"last_active_at"`
}

// Info is a read-only snapshot of conversation metadata.
type Info struct {
	ID           string    `json:"conversation_id"`
	PersonaID    string    `json:"persona_id"`
	TurnCount    int       `json:"turn_count"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

type managed struct {
	mu    sync.Mutex
	conv  Conversation
	ended bool

	// lastActive mirrors conv.LastActiveAt as unix nanoseconds so the
	// eviction paths can read activity without touching mu, which is held
	// across model calls.
	lastActive atomic.Int64
}

// touch records activity. Caller holds mu (or has not yet published the
// entry).
func (e *managed) touch(t time.Time) {
	e.conv.LastActiveAt = t
	e.lastActive.Store(t.UnixNano())
}

// Manager is the conversation state machine. The registry map is guarded
// by mu; each conversation additionally carries its own lock, held for
// the duration of a turn's model call plus the state update, so turns
// against the same id serialize while different ids proceed in parallel.
// Locks are never nested across conversations.
type Manager struct {
	mu            sync.Mutex
	conversations map[string]*managed

	inf   inference.Inferencer
	synth *persona.Synthesizer

	maxIdle  time.Duration
	capacity int
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxIdle sets how long an untouched conversation survives eviction.
func WithMaxIdle(d time.Duration) Option {
	return func(m *Manager) { m.maxIdle = d }
}

// WithCapacity bounds the number of active conversations; inserting past
// the bound evicts the longest-idle conversation first.
func WithCapacity(n int) Option {
	return func(m *Manager) { m.capacity = n }
}

func NewManager(inf inference.Inferencer, opts ...Option) *Manager {
	m := &Manager{
		conversations: make(map[string]*managed),
		inf:           inf,
		synth:         persona.NewSynthesizer(inf),
		maxIdle:       30 * time.Minute,
		capacity:      256,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start synthesizes a persona for the user's first sharing and produces
// the opening reply. An empty id generates one; reusing an active id
// fails with ErrExists unless force is set, in which case the previous
// conversation is replaced.
func (m *Manager) Start(ctx context.Context, id, userText string, profile emotion.Profile, companionReply string, force bool) (string, string, error) {
	if id == "" {
		id = "conv_" + ksuid.New().String()
	}

	m.mu.Lock()
	_, exists := m.conversations[id]
	m.mu.Unlock()
	if exists && !force {
		return "", "", fmt.Errorf("start %s: %w", id, ErrExists)
	}

	p, err := m.synth.Synthesize(ctx, userText, profile, companionReply)
	if err != nil {
		return "", "", err
	}

	origin := Origin{Text: userText, Emotions: emotion.Standardize(rawNames(profile), false)}
	reply, err := m.inf.Infer(ctx, turnParams(), systemMessage(p, origin), userText)
	if err != nil {
		return "", "", fmt.Errorf("first turn: %w", err)
	}

	now := time.Now()
	entry := &managed{conv: Conversation{
		ID:      id,
		Persona: p,
		Origin:  origin,
		History: []Turn{
			{Speaker: SpeakerUser, Text: userText},
			{Speaker: SpeakerPersona, Text: reply},
		},
		TurnCount: 1,
		CreatedAt: now,
	}}
	entry.touch(now)

	m.mu.Lock()
	if _, raced := m.conversations[id]; raced && !force {
		m.mu.Unlock()
		return "", "", fmt.Errorf("start %s: %w", id, ErrExists)
	}
	m.conversations[id] = entry
	m.enforceCapacityLocked()
	m.mu.Unlock()

	log.Info("conversation started", "id", id, "persona", p.ID)
	return id, reply, nil
}

// Continue runs one more turn of an active conversation. The per-id lock
// is held across the model call and released on every exit path; a failed
// call leaves history untouched.
func (m *Manager) Continue(ctx context.Context, id, userText string) (string, error) {
	entry, err := m.lookup(id)
	if err != nil {
		return "", err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.ended {
		return "", fmt.Errorf("continue %s: %w", id, ErrNotFound)
	}

	system := systemMessage(entry.conv.Persona, entry.conv.Origin)
	user := continuationPrompt(entry.conv, userText)
	if tokens, err := utils.NumTokensFromMessages(system + user); err == nil {
		log.Debug("continuing conversation", "id", id, "turn", entry.conv.TurnCount+1, "prompt_tokens", tokens)
	}

	reply, err := m.inf.Infer(ctx, turnParams(), system, user)
	if err != nil {
		return "", fmt.Errorf("continue %s: %w", id, err)
	}

	entry.conv.History = append(entry.conv.History,
		Turn{Speaker: SpeakerUser, Text: userText},
		Turn{Speaker: SpeakerPersona, Text: reply},
	)
	entry.conv.TurnCount++
	entry.touch(time.Now())
	return reply, nil
}

// Info returns a metadata snapshot, or ErrNotFound.
func (m *Manager) Info(id string) (Info, error) {
	entry, err := m.lookup(id)
	if err != nil {
		return Info{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.ended {
		return Info{}, fmt.Errorf("info %s: %w", id, ErrNotFound)
	}
	c := entry.conv
	return Info{
		ID:           c.ID,
		PersonaID:    c.Persona.ID,
		TurnCount:    c.TurnCount,
		MessageCount: len(c.History),
		CreatedAt:    c.CreatedAt,
		LastActiveAt: c.LastActiveAt,
	}, nil
}

// End removes a conversation. Idempotent: ending an id twice reports
// false the second time instead of failing.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	entry, ok := m.conversations[id]
	delete(m.conversations, id)
	m.mu.Unlock()
	if !ok {
		return false
	}

	// Wait for any in-flight turn before retiring the state.
	entry.mu.Lock()
	entry.ended = true
	entry.mu.Unlock()
	log.Info("conversation ended", "id", id)
	return true
}

// List returns the ids of all active conversations.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.conversations))
	for id := range m.conversations {
		ids = append(ids, id)
	}
	return ids
}

// Evict removes conversations idle longer than the max idle age and
// returns how many were dropped. The sweep never waits on per-entry
// locks, so an in-flight turn cannot stall the registry.
func (m *Manager) Evict() int {
	if m.maxIdle <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-m.maxIdle).UnixNano()

	m.mu.Lock()
	snapshot := make(map[string]*managed, len(m.conversations))
	for id, entry := range m.conversations {
		snapshot[id] = entry
	}
	m.mu.Unlock()

	var stale []string
	for id, entry := range snapshot {
		if entry.lastActive.Load() < cutoff {
			stale = append(stale, id)
		}
	}

	evicted := 0
	m.mu.Lock()
	for _, id := range stale {
		entry, ok := m.conversations[id]
		if !ok || entry != snapshot[id] {
			continue
		}
		// A turn may have landed since the snapshot.
		if entry.lastActive.Load() >= cutoff {
			continue
		}
		delete(m.conversations, id)
		evicted++
	}
	m.mu.Unlock()

	if evicted > 0 {
		log.Info("evicted idle conversations", "count", evicted)
	}
	return evicted
}

// StartEvictor sweeps idle conversations until ctx is cancelled.
func (m *Manager) StartEvictor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Evict()
			}
		}
	}()
}

func (m *Manager) lookup(id string) (*managed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return entry, nil
}

// enforceCapacityLocked drops the longest-idle conversations while over
// capacity. Caller holds m.mu.
func (m *Manager) enforceCapacityLocked() {
	if m.capacity <= 0 {
		return
	}
	for len(m.conversations) > m.capacity {
		oldest := ""
		var oldestAt int64
		for id, entry := range m.conversations {
			at := entry.lastActive.Load()
			if oldest == "" || at < oldestAt {
				oldest, oldestAt = id, at
			}
		}
		delete(m.conversations, oldest)
		log.Warn("capacity eviction", "id", oldest)
	}
}

func turnParams() *openai.ChatCompletionNewParams {
	return &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(512),
		Temperature:         openai.Float(0.7),
	}
}

func rawNames(profile emotion.Profile) []string {
	out := make([]string, 0, len(profile.Raw))
	for _, obs := range profile.Raw {
		out = append(out, obs.Name)
	}
	return out
}
