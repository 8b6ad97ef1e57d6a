package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Provider resolves the id of the signed-in owner.
type Provider interface {
	// OwnerID blocks until the owner is known, sign-in failed, or ctx is done.
	OwnerID(ctx context.Context) (string, error)
}

var ErrSignInFailed = errors.New("sign-in failed")

// Anonymous is a Provider that stays pending until SignIn or Fail is called.
type Anonymous struct {
	once    sync.Once
	ready   chan struct{}
	ownerID string
	err     error
}

func NewAnonymous() *Anonymous {
	return &Anonymous{ready: make(chan struct{})}
}

// SignIn resolves the provider with ownerID, or with a fresh anonymous id
// when ownerID is empty. Only the first resolution takes effect.
func (a *Anonymous) SignIn(ownerID string) string {
	a.once.Do(func() {
		if ownerID == "" {
			ownerID = uuid.NewString()
		}
		a.ownerID = ownerID
		close(a.ready)
	})
	<-a.ready
	return a.ownerID
}

// Fail resolves the provider with a sign-in error.
func (a *Anonymous) Fail(err error) {
	a.once.Do(func() {
		a.err = errors.Join(ErrSignInFailed, err)
		close(a.ready)
	})
}

func (a *Anonymous) OwnerID(ctx context.Context) (string, error) {
	select {
	case <-a.ready:
		if a.err != nil {
			return "", a.err
		}
		return a.ownerID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
