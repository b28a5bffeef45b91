package ledger

import (
	"sort"
	"strings"
	"sync"

	"labshare_dao/sdk"
)

// parseEventLine turns a contract log line (Type|k:v|k:v) into an Event.
// Segments without a colon are kept under their position so nothing is lost.
func parseEventLine(line string) (string, map[string]string) {
	parts := strings.Split(line, "|")
	fields := make(map[string]string, len(parts)-1)
	for i, p := range parts[1:] {
		k, v, ok := strings.Cut(p, ":")
		if !ok {
			fields["_"+fmtUint(uint64(i))] = p
			continue
		}
		fields[k] = v
	}
	return parts[0], fields
}

func buildEvents(lines []string, digest string, sender sdk.Address, ts int64) []Event {
	out := make([]Event, 0, len(lines))
	for i, line := range lines {
		typ, fields := parseEventLine(line)
		out = append(out, Event{
			TxDigest:  digest,
			Index:     i,
			Type:      typ,
			Sender:    sender,
			Timestamp: ts,
			Fields:    fields,
		})
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// hub fans committed events out to subscribers. A subscriber whose buffer is
// full is closed and removed; it resumes through Ledger.Events.
type hub struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan Event)}
}

func (h *hub) subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Event, buffer)
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// publish must be called in commit order.
func (h *hub) publish(events []Event) int {
	if len(events) == 0 {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	dropped := 0
	for id, ch := range h.subs {
		for _, ev := range events {
			select {
			case ch <- ev:
				continue
			default:
			}
			delete(h.subs, id)
			close(ch)
			dropped++
			break
		}
	}
	return dropped
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
