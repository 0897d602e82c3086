package bridge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/passkey-bridge/internal/bridge/contract"
	"github.com/louisbranch/passkey-bridge/internal/platform/requestctx"
	"go.opentelemetry.io/otel/trace"
)

// Adapter is one platform's rendition of the credential operations. Start
// methods run platform-specific validation, translate the request, hand it
// to the native layer, and return without blocking on the ceremony itself.
// Native failures are mapped to contract errors before the pending operation
// is rejected.
type Adapter interface {
	Platform() string
	StartCreation(ctx context.Context, req *contract.CreationRequest) (*Pending[contract.CreationResult], error)
	StartAssertion(ctx context.Context, req *contract.AssertionRequest) (*Pending[contract.AssertionResult], error)
}

// Bridge exposes createPasskey and authenticate over a single platform
// adapter. Every call is independent; the bridge holds no state across
// calls.
type Bridge struct {
	adapter Adapter
	clock   func() time.Time
}

// New creates a Bridge over the given platform adapter.
func New(adapter Adapter) *Bridge {
	return &Bridge{
		adapter: adapter,
		clock:   time.Now,
	}
}

// Platform names the adapter serving this bridge.
func (b *Bridge) Platform() string {
	return b.adapter.Platform()
}

// CreatePasskey validates the request, starts the native creation ceremony,
// and races it against the request timeout.
func (b *Bridge) CreatePasskey(ctx context.Context, req *contract.CreationRequest) (*contract.CreationResult, error) {
	if err := contract.ValidateCreation(req); err != nil {
		return nil, err
	}

	started := b.clock()
	pending, err := b.adapter.StartCreation(ctx, req)
	if err != nil {
		b.logOutcome(ctx, "create", req.RP.ID, creationAttachment(req), b.clock().Sub(started), err)
		return nil, err
	}

	result, err := await(ctx, pending, contract.EffectiveTimeout(req.Timeout))
	b.logOutcome(ctx, "create", req.RP.ID, creationAttachment(req), b.clock().Sub(started), err)
	return result, err
}

// Authenticate validates the request, starts the native assertion ceremony,
// and races it against the request timeout.
func (b *Bridge) Authenticate(ctx context.Context, req *contract.AssertionRequest) (*contract.AssertionResult, error) {
	if err := contract.ValidateAssertion(req); err != nil {
		return nil, err
	}

	started := b.clock()
	pending, err := b.adapter.StartAssertion(ctx, req)
	if err != nil {
		b.logOutcome(ctx, "get", req.RPID, "", b.clock().Sub(started), err)
		return nil, err
	}

	result, err := await(ctx, pending, contract.EffectiveTimeout(req.Timeout))
	b.logOutcome(ctx, "get", req.RPID, "", b.clock().Sub(started), err)
	return result, err
}

// await races a pending native operation against the ceremony timer and the
// caller's context. The timer starts here, after the native invocation was
// handed off, so validation and translation never eat into the budget. A
// losing native outcome is discarded by the pending handle.
func await[T any](ctx context.Context, pending *Pending[T], timeout time.Duration) (*T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case outcome := <-pending.Done():
		return outcome.Result, outcome.Err
	case <-timer.C:
		return nil, contract.New(contract.CodeTimeout, "ceremony did not complete in time")
	case <-ctx.Done():
		return nil, contract.Wrap(contract.CodeCancelled, "caller abandoned the ceremony", ctx.Err())
	}
}

// logOutcome emits one line per ceremony with coarse context only: platform,
// relying-party identifier, attachment, error code. Challenge bytes,
// credential identifiers, and user identifiers never appear in logs.
func (b *Bridge) logOutcome(ctx context.Context, op, rpID, attachment string, took time.Duration, err error) {
	fields := fmt.Sprintf("op=%s platform=%s rp=%s", op, b.adapter.Platform(), rpID)
	if attachment != "" {
		fields += " attachment=" + attachment
	}
	if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
		fields += " request_id=" + requestID
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		fields += " trace=" + sc.TraceID().String()
	}
	if err != nil {
		log.Printf("%s code=%s took=%s", fields, contract.GetCode(err), took.Round(time.Millisecond))
		return
	}
	log.Printf("%s ok took=%s", fields, took.Round(time.Millisecond))
}

func creationAttachment(req *contract.CreationRequest) string {
	if req.AuthenticatorSelection == nil {
		return ""
	}
	return req.AuthenticatorSelection.AuthenticatorAttachment
}
