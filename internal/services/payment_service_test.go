package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// fakeCheckoutProvider stands in for the payment gateway.
type fakeCheckoutProvider struct {
	sessions map[string]*CheckoutSession
	createN  int
}

func newFakeCheckoutProvider() *fakeCheckoutProvider {
	return &fakeCheckoutProvider{sessions: make(map[string]*CheckoutSession)}
}

func (p *fakeCheckoutProvider) CreateSession(_ context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	p.createN++
	session := &CheckoutSession{
		ID:       "cs_test_" + params.Description,
		URL:      "https://pay.example.com/cs_test",
		Amount:   params.Amount,
		Currency: params.Currency,
	}
	p.sessions[session.ID] = session
	return session, nil
}

func (p *fakeCheckoutProvider) GetSession(_ context.Context, sessionID string) (*CheckoutSession, error) {
	session, ok := p.sessions[sessionID]
	if !ok {
		return nil, errors.New("unknown session")
	}
	return session, nil
}

type paymentTestEnv struct {
	*progressTestEnv
	provider *fakeCheckoutProvider
	service  PaymentService
}

func newPaymentTestEnv(t *testing.T) *paymentTestEnv {
	t.Helper()

	base := newProgressTestEnv(t)
	provider := newFakeCheckoutProvider()
	config := PaymentConfig{LevelPrice: 4.99, Currency: "USD"}
	return &paymentTestEnv{
		progressTestEnv: base,
		provider:        provider,
		service:         NewPaymentService(base.repo, base.db, testLogger(), validator.New(), provider, config, nil),
	}
}

func seedPaidLevel(t *testing.T, env *paymentTestEnv, languageID uint) *models.Level {
	t.Helper()

	level := &models.Level{LanguageID: languageID, NameEn: "Level 2", SequenceOrder: 2}
	require.NoError(t, env.db.Create(level).Error)
	return level
}

func checkoutRequest(levelID uint) *PaymentSessionRequest {
	return &PaymentSessionRequest{
		LevelID:    levelID,
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
	}
}

func TestPaymentService_FreeLevelGrantedImmediately(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 0)
	parent := seedParent(t, env.db, "parent-1")

	resp, err := env.service.CreateCheckoutSession(ctx, checkoutRequest(seed.Level.ID), parent.ID)
	require.NoError(t, err)

	assert.True(t, resp.Free)
	assert.True(t, strings.HasPrefix(resp.SessionID, models.FreeLevelSessionID+"-"))
	assert.Empty(t, resp.SessionURL)
	assert.Zero(t, env.provider.createN, "free levels must not hit the gateway")

	// The grant is a completed purchase, so access is immediate.
	unlocked, err := env.service.CheckLevelAccess(ctx, parent.ID, seed.Level.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)

	// Granting again is rejected as already owned.
	_, err = env.service.CreateCheckoutSession(ctx, checkoutRequest(seed.Level.ID), parent.ID)
	assert.ErrorIs(t, err, ErrLevelAlreadyOwned)
}

func TestPaymentService_PaidLevelCheckout(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 0)
	level := seedPaidLevel(t, env, seed.Language.ID)
	parent := seedParent(t, env.db, "parent-1")

	resp, err := env.service.CreateCheckoutSession(ctx, checkoutRequest(level.ID), parent.ID)
	require.NoError(t, err)

	assert.False(t, resp.Free)
	assert.NotEmpty(t, resp.SessionURL)
	assert.Equal(t, 4.99, resp.Amount)
	assert.Equal(t, "USD", resp.Currency)

	// Until the gateway confirms, the level stays locked.
	unlocked, err := env.service.CheckLevelAccess(ctx, parent.ID, level.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)
}

func TestPaymentService_VerifyPayment(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 0)
	level := seedPaidLevel(t, env, seed.Language.ID)
	parent := seedParent(t, env.db, "parent-1")

	created, err := env.service.CreateCheckoutSession(ctx, checkoutRequest(level.ID), parent.ID)
	require.NoError(t, err)

	// Not yet paid: the purchase is marked failed.
	verified, err := env.service.VerifyPayment(ctx, created.SessionID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, verified.PaymentStatus)

	// The gateway reports payment; verification completes the purchase.
	env.provider.sessions[created.SessionID].Paid = true
	verified, err = env.service.VerifyPayment(ctx, created.SessionID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, verified.PaymentStatus)
	require.NotNil(t, verified.CompletedAt)

	unlocked, err := env.service.CheckLevelAccess(ctx, parent.ID, level.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestPaymentService_VerifyPayment_ForeignSessionDenied(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 0)
	level := seedPaidLevel(t, env, seed.Language.ID)
	buyer := seedParent(t, env.db, "parent-1")
	other := seedParent(t, env.db, "parent-2")

	created, err := env.service.CreateCheckoutSession(ctx, checkoutRequest(level.ID), buyer.ID)
	require.NoError(t, err)

	var permErr *PermissionError
	_, err = env.service.VerifyPayment(ctx, created.SessionID, other.ID)
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, "purchase", permErr.Resource)
}

func TestPaymentService_VerifyPayment_UnknownSession(t *testing.T) {
	env := newPaymentTestEnv(t)

	_, err := env.service.VerifyPayment(context.Background(), "cs_missing", "parent-1")
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestPaymentService_CheckLevelAccess_UnknownLevel(t *testing.T) {
	env := newPaymentTestEnv(t)

	_, err := env.service.CheckLevelAccess(context.Background(), "parent-1", 999)
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestPaymentService_ListPurchases(t *testing.T) {
	env := newPaymentTestEnv(t)
	ctx := context.Background()

	seed := seedContent(t, env.db, 0)
	level := seedPaidLevel(t, env, seed.Language.ID)
	parent := seedParent(t, env.db, "parent-1")
	other := seedParent(t, env.db, "parent-2")

	_, err := env.service.CreateCheckoutSession(ctx, checkoutRequest(seed.Level.ID), parent.ID)
	require.NoError(t, err)
	_, err = env.service.CreateCheckoutSession(ctx, checkoutRequest(level.ID), parent.ID)
	require.NoError(t, err)
	_, err = env.service.CreateCheckoutSession(ctx, checkoutRequest(seed.Level.ID), other.ID)
	require.NoError(t, err)

	purchases, total, err := env.service.ListPurchases(ctx, parent.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, purchases, 2)

	// Page size is applied.
	purchases, total, err = env.service.ListPurchases(ctx, parent.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, purchases, 1)
}
