package otc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/studybuddy-api/internal/domain"
)

// DefaultTTL is how long an issued code stays usable.
const DefaultTTL = 10 * time.Minute

// Authority issues and checks one-time codes bound to email addresses.
type Authority interface {
	// Issue stores a fresh code for email, replacing any previous one, and
	// queues delivery. Delivery failures never surface here.
	Issue(ctx context.Context, email string) error
	// Verify marks the live unverified record verified when code matches.
	// false covers wrong, expired and never-issued codes alike; err is only
	// set when the store itself failed.
	Verify(ctx context.Context, email, code string) (bool, error)
	// ConsumeIfVerified reports whether email holds a verified, unexpired record.
	// The record is left in place; Discard it once the dependent write succeeded.
	ConsumeIfVerified(ctx context.Context, email string) (bool, error)
	// Discard deletes the record for email.
	Discard(ctx context.Context, email string) error
}

type otcStore interface {
	Upsert(ctx context.Context, rec *domain.OTCRecord) error
	// MarkVerified flips verified to true only if a record exists for email
	// with the given code, verified=false and expires_at > now, in one
	// conditional write. It reports whether the write happened.
	MarkVerified(ctx context.Context, email, code string, now time.Time) (bool, error)
	FindVerifiedUnexpired(ctx context.Context, email string, now time.Time) (*domain.OTCRecord, error)
	Delete(ctx context.Context, email string) error
}

// CodeSender delivers a code out of band.
type CodeSender interface {
	SendCode(ctx context.Context, email, code string) error
}

// Submitter runs tasks in the background. Submit reports false when the task was rejected.
type Submitter interface {
	Submit(task func(ctx context.Context)) bool
}

// Recorder observes authority events. A nil Recorder is allowed.
type Recorder interface {
	ObserveIssued()
	ObserveVerify(ok bool)
	ObserveDispatchFailure()
}

type authority struct {
	store    otcStore
	sender   CodeSender
	pool     Submitter
	random   RandomSource
	now      func() time.Time
	ttl      time.Duration
	recorder Recorder
}

type Deps struct {
	Store      otcStore
	Sender     CodeSender
	Dispatcher Submitter
	Random     RandomSource     // defaults to CryptoSource
	Now        func() time.Time // defaults to time.Now
	TTL        time.Duration    // defaults to DefaultTTL
	Recorder   Recorder
}

func NewAuthority(deps Deps) Authority {
	a := &authority{
		store:    deps.Store,
		sender:   deps.Sender,
		pool:     deps.Dispatcher,
		random:   deps.Random,
		now:      deps.Now,
		ttl:      deps.TTL,
		recorder: deps.Recorder,
	}
	if a.random == nil {
		a.random = CryptoSource
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.ttl <= 0 {
		a.ttl = DefaultTTL
	}
	return a
}

func (a *authority) Issue(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email required: %w", domain.ErrBadRequest)
	}
	code, err := newCode(a.random)
	if err != nil {
		return err
	}
	now := a.now().UTC()
	rec := &domain.OTCRecord{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(a.ttl).Unix(),
		Verified:  false,
	}
	if err := a.store.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	if a.recorder != nil {
		a.recorder.ObserveIssued()
	}
	a.dispatch(email, code)
	return nil
}

func (a *authority) dispatch(email, code string) {
	if a.sender == nil {
		return
	}
	send := func(ctx context.Context) {
		if err := a.sender.SendCode(ctx, email, code); err != nil {
			slog.Warn("failed to deliver one-time code", "email", email, "err", err)
			a.dispatchFailed()
		}
	}
	if a.pool == nil {
		send(context.Background())
		return
	}
	if !a.pool.Submit(send) {
		slog.Warn("dispatch queue full, one-time code not delivered", "email", email)
		a.dispatchFailed()
	}
}

func (a *authority) dispatchFailed() {
	if a.recorder != nil {
		a.recorder.ObserveDispatchFailure()
	}
}

func (a *authority) Verify(ctx context.Context, email, code string) (bool, error) {
	email = domain.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || !wellFormed(code) {
		a.observeVerify(false)
		return false, nil
	}
	ok, err := a.store.MarkVerified(ctx, email, code, a.now())
	if err != nil {
		return false, fmt.Errorf("verify code: %w", err)
	}
	a.observeVerify(ok)
	return ok, nil
}

func (a *authority) observeVerify(ok bool) {
	if a.recorder != nil {
		a.recorder.ObserveVerify(ok)
	}
}

func (a *authority) ConsumeIfVerified(ctx context.Context, email string) (bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	rec, err := a.store.FindVerifiedUnexpired(ctx, email, a.now())
	if err != nil {
		return false, fmt.Errorf("check verification: %w", err)
	}
	return rec != nil, nil
}

func (a *authority) Discard(ctx context.Context, email string) error {
	return a.store.Delete(ctx, domain.NormalizeEmail(email))
}
