// Package ticket implements the support-ticket lifecycle: opening private
// ticket channels from a category menu, staff claim and close transitions,
// and transcript archiving on close.
package ticket

import (
	"fmt"
	"strings"
	"sync"
)

// Channel name prefix and topic markers. The topic is a human-readable
// projection of the ticket record, and the recovery source for channels that
// outlived a process restart.
const (
	channelPrefix  = "ticket-"
	categoryMarker = "Categoría: "
	claimMarker    = "Reclamado por"
)

// Ticket is the structured record of one live support ticket. The record is
// the source of truth while the process runs; channel name and topic carry
// enough of it to reconstruct a usable record after a restart.
type Ticket struct {
	// ChannelID identifies the dedicated text channel. Channel existence is
	// ticket existence.
	ChannelID string

	// OwnerID is the user who opened the ticket. Empty on a reconstructed
	// record whose channel name and overwrites did not yield an owner.
	OwnerID string

	// CategoryName is the display name of the chosen category.
	CategoryName string

	// ClaimedBy is the staff member who claimed the ticket, empty while
	// unclaimed. Claiming is monotonic; this is never cleared.
	ClaimedBy string

	// WelcomeMessageID is the introduction message carrying the claim/close
	// buttons. Empty on reconstructed records; the controller then falls
	// back to scanning recent messages.
	WelcomeMessageID string
}

// Claimed reports whether the ticket has been claimed.
func (t *Ticket) Claimed() bool {
	return t.ClaimedBy != ""
}

// Topic renders the channel topic projection for the ticket.
func (t *Ticket) Topic(ownerTag string) string {
	topic := fmt.Sprintf("Ticket de %s | %s%s", ownerTag, categoryMarker, t.CategoryName)
	if t.ClaimedBy != "" {
		topic += fmt.Sprintf(" | %s: <@%s>", claimMarker, t.ClaimedBy)
	}
	return topic
}

// ChannelName returns the ticket channel name for the given owner. The name
// doubles as the per-owner uniqueness key.
func ChannelName(ownerID string) string {
	return channelPrefix + ownerID
}

// ownerFromChannelName recovers the owner ID encoded in a ticket channel name.
func ownerFromChannelName(name string) (string, bool) {
	owner, found := strings.CutPrefix(name, channelPrefix)
	if !found || owner == "" {
		return "", false
	}
	return owner, true
}

// categoryFromTopic recovers the category display name from a channel topic.
func categoryFromTopic(topic string) (string, bool) {
	_, rest, found := strings.Cut(topic, categoryMarker)
	if !found {
		return "", false
	}
	name, _, _ := strings.Cut(rest, "|")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}

// claimedTopic reports whether the topic carries the claim marker. The marker
// is matched as a substring so that hand-edited topics still register.
func claimedTopic(topic string) bool {
	return strings.Contains(topic, claimMarker)
}

// claimerFromTopic recovers the claiming staff member's ID from a channel topic.
func claimerFromTopic(topic string) (string, bool) {
	_, rest, found := strings.Cut(topic, claimMarker+": <@")
	if !found {
		return "", false
	}
	id, _, found := strings.Cut(rest, ">")
	if !found || id == "" {
		return "", false
	}
	return id, true
}

// Store holds live ticket records keyed by channel ID, with an owner index
// enforcing the one-open-ticket-per-owner invariant. discordgo dispatches
// event handlers on separate goroutines, so all access is mutex guarded.
type Store struct {
	mu        sync.Mutex
	byChannel map[string]*Ticket
	byOwner   map[string]string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byChannel: map[string]*Ticket{},
		byOwner:   map[string]string{},
	}
}

// Reserve atomically claims the owner slot for a ticket about to be opened.
// It returns false when the owner already has a live or reserved ticket.
// The reservation is completed by Put and rolled back by Release.
func (s *Store) Reserve(ownerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byOwner[ownerID]; exists {
		return false
	}
	s.byOwner[ownerID] = ""
	return true
}

// Release rolls back a reservation made by Reserve.
func (s *Store) Release(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if channelID, exists := s.byOwner[ownerID]; exists && channelID == "" {
		delete(s.byOwner, ownerID)
	}
}

// Put stores the ticket record and completes its owner reservation, if any.
func (s *Store) Put(t *Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byChannel[t.ChannelID] = t
	if t.OwnerID != "" {
		s.byOwner[t.OwnerID] = t.ChannelID
	}
}

// Get returns a copy of the record for the given channel.
func (s *Store) Get(channelID string) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byChannel[channelID]
	if !ok {
		return Ticket{}, false
	}
	return *t, true
}

// OwnerChannel returns the live ticket channel for the given owner, if any.
func (s *Store) OwnerChannel(ownerID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channelID, ok := s.byOwner[ownerID]
	return channelID, ok
}

// SetClaimed marks the ticket claimed by the given staff member.
func (s *Store) SetClaimed(channelID, staffID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.byChannel[channelID]; ok {
		t.ClaimedBy = staffID
	}
}

// Remove drops the record and frees the owner slot.
func (s *Store) Remove(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byChannel[channelID]
	if !ok {
		return
	}
	delete(s.byChannel, channelID)
	if t.OwnerID != "" {
		delete(s.byOwner, t.OwnerID)
	}
}
