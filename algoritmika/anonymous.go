package algoritmika

import (
	"context"

	"github.com/rs/zerolog"
)

// promoAuthEndpoint authenticates without per-student credentials using
// the platform's promotional identity.
const promoAuthEndpoint = "/s/auth/api/e/student/logika-promo"

// promoIdentity is the fixed identity payload the promo endpoint
// accepts. It is not tied to any student account.
var promoIdentity = map[string]string{"promo": "logika"}

// AnonymousSession is a restricted session authenticated through the
// platform's promotional identity instead of student credentials. It
// supports only the community actions: reactions and comment posting and
// deletion.
type AnonymousSession struct {
	session
}

// NewAnonymousSession creates an anonymous session. No request is made
// until Login is called.
func NewAnonymousSession(logger zerolog.Logger, opts ...Option) *AnonymousSession {
	return &AnonymousSession{session: newSession(logger, opts...)}
}

// Login authenticates with the fixed promotional identity. Error
// semantics match Session.Login; an anonymous session has no student id.
func (s *AnonymousSession) Login(ctx context.Context) error {
	_, client, err := s.authenticate(ctx, promoAuthEndpoint, promoIdentity)
	if err != nil {
		return err
	}
	s.open(client)
	s.logger.Info().Msg("Logged in anonymously")
	return nil
}
