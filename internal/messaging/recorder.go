package messaging

import (
	"context"
	"sync"
)

// Recorder is an in-memory Client for tests. It records every send and
// group removal, and serves configured group rosters.
type Recorder struct {
	mu sync.Mutex

	Sent     []RecordedSend
	Removed  []RecordedRemoval
	Groups   map[string][]Member
	SendErr  error
	GroupErr map[string]error // per-group removal failures
}

// RecordedSend is one captured Send call
type RecordedSend struct {
	ChatID  string
	Message OutgoingMessage
}

// RecordedRemoval is one captured RemoveFromGroup call
type RecordedRemoval struct {
	GroupID string
	JID     string
}

// Ensure Recorder implements Client
var _ Client = (*Recorder)(nil)

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{
		Groups:   make(map[string][]Member),
		GroupErr: make(map[string]error),
	}
}

func (r *Recorder) Send(ctx context.Context, chatID string, msg OutgoingMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SendErr != nil {
		return r.SendErr
	}
	r.Sent = append(r.Sent, RecordedSend{ChatID: chatID, Message: msg})
	return nil
}

func (r *Recorder) GroupMembers(ctx context.Context, groupID string) ([]Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Groups[groupID], nil
}

func (r *Recorder) ListGroups(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	groups := make([]string, 0, len(r.Groups))
	for id := range r.Groups {
		groups = append(groups, id)
	}
	return groups, nil
}

func (r *Recorder) RemoveFromGroup(ctx context.Context, groupID, jid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.GroupErr[groupID]; err != nil {
		return err
	}
	r.Removed = append(r.Removed, RecordedRemoval{GroupID: groupID, JID: jid})
	return nil
}

// LastSent returns the most recent send, or nil
func (r *Recorder) LastSent() *RecordedSend {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Sent) == 0 {
		return nil
	}
	return &r.Sent[len(r.Sent)-1]
}

// Texts returns the text of every recorded send, in order
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	texts := make([]string, len(r.Sent))
	for i, s := range r.Sent {
		texts[i] = s.Message.Text
	}
	return texts
}

// Reset clears recorded sends and removals
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = nil
	r.Removed = nil
}
