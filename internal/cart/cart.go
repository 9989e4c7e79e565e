// Package cart holds the per-session shopping cart. Carts are transient:
// they live only in memory for the lifetime of a staff session and are
// destroyed by checkout. Each cart belongs to exactly one user, so the only
// locking is at the store level where concurrent requests from the same
// session (double-submit) may race; per-key updates are last-write-wins.
package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Line is a single cart entry: a desired quantity of one menu item.
type Line struct {
	MenuItemID uuid.UUID
	Quantity   int32
	Notes      string
}

// Cart is an ordered list of lines. Insertion order is preserved so that
// checkout creates order items in the order they were added.
type Cart struct {
	lines []Line
}

// Add merges the quantity into an existing line for the same menu item, or
// appends a new line. Non-empty notes replace the previous notes.
func (c *Cart) Add(line Line) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == line.MenuItemID {
			c.lines[i].Quantity += line.Quantity
			if line.Notes != "" {
				c.lines[i].Notes = line.Notes
			}
			return
		}
	}
	c.lines = append(c.lines, line)
}

// SetQuantity overwrites the quantity of an existing line. A quantity of zero
// or less removes the line. Unknown menu item IDs are ignored.
func (c *Cart) SetQuantity(menuItemID uuid.UUID, quantity int32) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			if quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			} else {
				c.lines[i].Quantity = quantity
			}
			return
		}
	}
}

// Remove deletes the line for the given menu item, if present.
func (c *Cart) Remove(menuItemID uuid.UUID) {
	c.SetQuantity(menuItemID, 0)
}

// Lines returns a copy of the cart's lines in insertion order.
func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) Len() int {
	return len(c.lines)
}

// Store keeps one cart per user session.
type Store struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID]*Cart)}
}

// Get returns a snapshot of the user's cart. The snapshot is detached: later
// store mutations do not affect it, which lets checkout work on a stable view.
func (s *Store) Get(userID uuid.UUID) Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[userID]
	if !ok {
		return Cart{}
	}
	return Cart{lines: c.Lines()}
}

func (s *Store) Add(userID uuid.UUID, line Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &Cart{}
		s.carts[userID] = c
	}
	c.Add(line)
}

func (s *Store) SetQuantity(userID uuid.UUID, menuItemID uuid.UUID, quantity int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		c.SetQuantity(menuItemID, quantity)
	}
}

func (s *Store) Remove(userID uuid.UUID, menuItemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		c.Remove(menuItemID)
	}
}

// Clear empties the user's cart. Called after a successful checkout.
func (s *Store) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
