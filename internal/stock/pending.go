package stock

import (
	"errors"
	"sync"
	"time"

	"khata-pos/internal/models"
)

// ErrNoPendingEdit is returned when confirming or cancelling an unknown edit.
var ErrNoPendingEdit = errors.New("no pending stock edit")

// PendingEdit is a product update held back until a reason is supplied.
type PendingEdit struct {
	ID        string         `json:"id"`
	Product   models.Product `json:"product"`
	Previous  int            `json:"previousStock"`
	Change    int            `json:"change"`
	User      string         `json:"user"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Pending holds edits awaiting a reason, keyed by edit id. A newer edit for the
// same product replaces the older one.
type Pending struct {
	mu    sync.Mutex
	edits map[string]PendingEdit
}

func NewPending() *Pending {
	return &Pending{edits: make(map[string]PendingEdit)}
}

func (p *Pending) Hold(e PendingEdit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, existing := range p.edits {
		if existing.Product.ID == e.Product.ID {
			delete(p.edits, id)
		}
	}
	p.edits[e.ID] = e
}

// Take removes and returns the edit.
func (p *Pending) Take(id string) (PendingEdit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.edits[id]
	if !ok {
		return PendingEdit{}, ErrNoPendingEdit
	}
	delete(p.edits, id)
	return e, nil
}

func (p *Pending) Get(id string) (PendingEdit, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.edits[id]
	return e, ok
}

func (p *Pending) List() []PendingEdit {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PendingEdit, 0, len(p.edits))
	for _, e := range p.edits {
		out = append(out, e)
	}
	return out
}

// Drop forgets every pending edit for productID.
func (p *Pending) Drop(productID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, e := range p.edits {
		if e.Product.ID == productID {
			delete(p.edits, id)
		}
	}
}
