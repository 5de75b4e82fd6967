// Package session holds the client's authenticated session explicitly: it is
// created by login, passed to whatever needs the token, and dropped on
// logout. Nothing here is global.
package session

import (
	"sync/atomic"
	"time"

	"github.com/pantryhub/pantry/internal/models"
)

type Session struct {
	User      models.User
	Token     string
	CreatedAt time.Time

	sequencer Sequencer
}

func New(user models.User, token string) *Session {
	return &Session{User: user, Token: token, CreatedAt: time.Now()}
}

// Sequencer orders the requests made within the session.
func (session *Session) Sequencer() *Sequencer {
	return &session.sequencer
}

// Sequencer hands out monotonically increasing tickets. A ticket is current
// until a later one is taken, which is how a response learns it has been
// superseded.
type Sequencer struct {
	latest atomic.Uint64
}

type Ticket struct {
	sequencer *Sequencer
	number    uint64
}

func (sequencer *Sequencer) Next() Ticket {
	return Ticket{sequencer: sequencer, number: sequencer.latest.Add(1)}
}

func (ticket Ticket) Number() uint64 {
	return ticket.number
}

// Current reports whether no ticket was issued after this one.
func (ticket Ticket) Current() bool {
	return ticket.sequencer.latest.Load() == ticket.number
}
