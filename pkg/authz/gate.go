// Package authz turns a verified session plus PIN into single-use
// authorization tickets bound to one transfer intent.
package authz

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chainsafe/token-wallet/internal/metrics"
	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	"github.com/chainsafe/token-wallet/pkg/auth"
	"github.com/chainsafe/token-wallet/pkg/intent"
	"github.com/chainsafe/token-wallet/pkg/user"
	"github.com/chainsafe/token-wallet/pkg/userstore"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidSecret       = errors.New("invalid PIN")
	ErrTooManyAttempts     = errors.New("too many PIN attempts")
	ErrTicketUnknown       = errors.New("unknown authorization ticket")
	ErrTicketExpired       = errors.New("authorization ticket expired")
	ErrTicketConsumed      = errors.New("authorization ticket already used")
	ErrFingerprintMismatch = errors.New("authorization ticket does not match transfer")
)

// SessionVerifier validates session tokens.
type SessionVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// UserLookup loads the user behind a session.
type UserLookup interface {
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
}

// Ticket authorizes exactly one dispatch of the intent it was issued for.
// It never carries the PIN.
type Ticket struct {
	ID                uuid.UUID
	IntentFingerprint string
	Identity          auth.Identity
	IssuedAt          time.Time
	ExpiresAt         time.Time
}

// Gate verifies sessions and PINs and tracks ticket use.
type Gate struct {
	sessions SessionVerifier
	users    UserLookup
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time

	attemptsPerMinute float64
	burst             int

	mu       sync.Mutex
	issued   map[uuid.UUID]*Ticket
	consumed map[uuid.UUID]time.Time
	limiters map[int64]*rate.Limiter
}

// NewGate creates a Gate.
func NewGate(sessions SessionVerifier, users UserLookup, opts ...Option) *Gate {
	s := applyOptions(opts)
	return &Gate{
		sessions:          sessions,
		users:             users,
		logger:            s.logger,
		ttl:               s.ttl,
		now:               s.now,
		attemptsPerMinute: s.attemptsPerMinute,
		burst:             s.burst,
		issued:            make(map[uuid.UUID]*Ticket),
		consumed:          make(map[uuid.UUID]time.Time),
		limiters:          make(map[int64]*rate.Limiter),
	}
}

// Authorize verifies the session and PIN and issues a ticket bound to the
// intent's fingerprint.
func (g *Gate) Authorize(ctx context.Context, in *intent.Intent, sessionToken, pin string) (*Ticket, error) {
	id, err := g.sessions.Verify(sessionToken)
	if err != nil {
		metrics.AuthorizationsTotal.WithLabelValues("invalid_session").Inc()
		return nil, apperrors.UnAuthorizedError(errors.Join(ErrUnauthorized, err), "Invalid or expired session")
	}

	usr, err := g.users.GetUser(ctx, userstore.WithID(id.UserID))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			metrics.AuthorizationsTotal.WithLabelValues("unknown_user").Inc()
			return nil, apperrors.UnAuthorizedError(ErrUnauthorized, "User not found")
		}
		return nil, apperrors.GeneralError(err)
	}

	if !g.limiter(usr.ID).AllowN(g.now(), 1) {
		g.logger.Warn("PIN attempt limit reached", zap.Int64("user_id", usr.ID))
		metrics.AuthorizationsTotal.WithLabelValues("locked").Inc()
		return nil, apperrors.LockedError(ErrTooManyAttempts, "Too many PIN attempts, try again later")
	}

	if !auth.VerifyPIN(usr.PINHash, pin) {
		g.logger.Info("PIN verification failed", zap.Int64("user_id", usr.ID))
		metrics.AuthorizationsTotal.WithLabelValues("invalid_pin").Inc()
		return nil, apperrors.UnAuthorizedError(ErrInvalidSecret, "Invalid PIN")
	}

	now := g.now()
	ticket := &Ticket{
		ID:                uuid.New(),
		IntentFingerprint: in.Fingerprint(),
		Identity:          auth.Identity{UserID: usr.ID, Email: usr.Email},
		IssuedAt:          now,
		ExpiresAt:         now.Add(g.ttl),
	}

	g.mu.Lock()
	g.pruneLocked(now)
	stored := *ticket
	g.issued[ticket.ID] = &stored
	g.mu.Unlock()

	metrics.AuthorizationsTotal.WithLabelValues("granted").Inc()
	return ticket, nil
}

// Consume marks a ticket used for the given intent. A ticket is accepted
// once; later calls fail with ErrTicketConsumed.
func (g *Gate) Consume(ticket *Ticket, in *intent.Intent) error {
	if ticket == nil {
		return apperrors.UnAuthorizedError(ErrTicketUnknown, "Authorization required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if _, used := g.consumed[ticket.ID]; used {
		return apperrors.ConflictError(ErrTicketConsumed, "Authorization already used")
	}

	stored, ok := g.issued[ticket.ID]
	if !ok {
		return apperrors.UnAuthorizedError(ErrTicketUnknown, "Authorization required")
	}
	if !now.Before(stored.ExpiresAt) {
		delete(g.issued, ticket.ID)
		return apperrors.UnAuthorizedError(ErrTicketExpired, "Authorization expired")
	}
	if stored.IntentFingerprint != in.Fingerprint() {
		return apperrors.ForbiddenError(ErrFingerprintMismatch, "Authorization does not match this transfer")
	}

	delete(g.issued, ticket.ID)
	g.consumed[ticket.ID] = stored.ExpiresAt
	return nil
}

func (g *Gate) limiter(userID int64) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(g.attemptsPerMinute/60), g.burst)
		g.limiters[userID] = l
	}
	return l
}

// pruneLocked drops consumed ids whose ticket has expired and issued tickets
// that expired more than one ttl ago. g.mu must be held.
func (g *Gate) pruneLocked(now time.Time) {
	for id, exp := range g.consumed {
		if now.After(exp) {
			delete(g.consumed, id)
		}
	}
	for id, t := range g.issued {
		if now.After(t.ExpiresAt.Add(g.ttl)) {
			delete(g.issued, id)
		}
	}
}
