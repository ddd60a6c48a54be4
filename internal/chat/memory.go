package chat

import "sync"

// DefaultWindow is the number of most-recent exchanges kept per session.
const DefaultWindow = 2

// Exchange is one completed (user, assistant) utterance pair.
type Exchange struct {
	User      string
	Assistant string
}

// window is a bounded FIFO of the most recent exchanges for one session.
type window struct {
	k         int
	exchanges []Exchange
}

func (w *window) append(ex Exchange) {
	w.exchanges = append(w.exchanges, ex)
	if len(w.exchanges) > w.k {
		w.exchanges = w.exchanges[len(w.exchanges)-w.k:]
	}
}

// Windows holds per-session conversation memory. All access goes through the
// manager so windows are never shared across sessions or goroutines.
type Windows struct {
	mu        sync.RWMutex
	k         int
	bySession map[string]*window
}

func NewWindows(k int) *Windows {
	if k <= 0 {
		k = DefaultWindow
	}
	return &Windows{k: k, bySession: make(map[string]*window)}
}

// Render returns the session's current window, oldest first.
func (ws *Windows) Render(sessionID string) []Exchange {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	w, ok := ws.bySession[sessionID]
	if !ok || len(w.exchanges) == 0 {
		return nil
	}
	out := make([]Exchange, len(w.exchanges))
	copy(out, w.exchanges)
	return out
}

// Append records a completed exchange, evicting the oldest entry when the
// window would exceed k.
func (ws *Windows) Append(sessionID, user, assistant string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	w, ok := ws.bySession[sessionID]
	if !ok {
		w = &window{k: ws.k}
		ws.bySession[sessionID] = w
	}
	w.append(Exchange{User: user, Assistant: assistant})
}

// Drop discards a session's memory. Called when the session ends or expires.
func (ws *Windows) Drop(sessionID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	delete(ws.bySession, sessionID)
}
