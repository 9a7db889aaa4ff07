package notify

import "sync"

// Message is one recorded notification.
type Message struct {
	Text     string
	Severity Severity
}

// Recorder is a Sink that keeps every message it receives. Used in
// tests to assert on what the operator would have seen.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Text: message, Severity: severity})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// BySeverity returns the recorded messages with the given severity.
func (r *Recorder) BySeverity(severity Severity) []Message {
	var out []Message
	for _, m := range r.Messages() {
		if m.Severity == severity {
			out = append(out, m)
		}
	}
	return out
}
