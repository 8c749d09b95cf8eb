package session

import (
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/auth"
)

var _ auth.Presence = (*MemoryPresence)(nil)

// MemoryPresence presencia por ruta con vencimiento por TTL. Un actor está en una sola ruta a la vez.
type MemoryPresence struct {
	mu      sync.Mutex
	ttl     time.Duration
	members map[string]auth.Member // userID -> última señal
}

func NewMemoryPresence(ttl time.Duration) *MemoryPresence {
	if ttl <= 0 {
		ttl = 90 * time.Second
	}
	return &MemoryPresence{ttl: ttl, members: make(map[string]auth.Member)}
}

func (p *MemoryPresence) Join(route string, m auth.Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m.Route = route
	p.members[m.UserID] = m
}

func (p *MemoryPresence) Leave(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.members, userID)
}

// Online descarta entradas vencidas y devuelve los presentes en route ("" = todas las rutas).
func (p *MemoryPresence) Online(route string, now time.Time) []auth.Member {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]auth.Member, 0, len(p.members))
	for id, m := range p.members {
		if now.Sub(m.LastSeen) > p.ttl {
			delete(p.members, id)
			continue
		}
		if route == "" || m.Route == route {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
