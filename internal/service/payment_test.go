package service

import (
	"context"
	"testing"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDaraja acknowledges every push with fixed correlation ids.
type fakeDaraja struct {
	calls     int
	lastPhone string
	lastAmt   decimal.Decimal
}

func (f *fakeDaraja) STKPush(ctx context.Context, phoneNumber string, amount decimal.Decimal) (*model.STKPushResponse, error) {
	f.calls++
	f.lastPhone = phoneNumber
	f.lastAmt = amount
	return &model.STKPushResponse{
		MerchantRequestID:   "mr_1",
		CheckoutRequestID:   "ws_CO_1",
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}, nil
}

func placePendingOrder(t *testing.T, env *testEnv) *dto.OrderResponse {
	t.Helper()
	ctx := context.Background()

	user := env.seedUser(t)
	env.seedAddress(t, user.ID)
	product := env.seedProduct(t, "100.00")

	carts := env.cartService()
	_, err := carts.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	order, err := env.orderService().Checkout(ctx, user.ID)
	require.NoError(t, err)
	return order
}

func successCallback(checkoutRequestID string) *model.STKCallbackEnvelope {
	return &model.STKCallbackEnvelope{
		Body: model.STKCallbackBody{
			StkCallback: model.STKCallback{
				MerchantRequestID: "mr_1",
				CheckoutRequestID: checkoutRequestID,
				ResultCode:        0,
				ResultDesc:        "The service request is processed successfully.",
				CallbackMetadata: &model.CallbackMetadata{
					Item: []model.MetadataItem{
						{Name: "Amount", Value: float64(200)},
						{Name: "MpesaReceiptNumber", Value: "NLJ7RT61SV"},
						{Name: "TransactionDate", Value: float64(20260828171234)},
						{Name: "PhoneNumber", Value: float64(254794157205)},
					},
				},
			},
		},
	}
}

func TestInitiateSTKPush_CreatesSession(t *testing.T) {
	env := newTestEnv(t)
	daraja := &fakeDaraja{}
	payments := env.paymentService(daraja)
	ctx := context.Background()

	order := placePendingOrder(t, env)

	resp, err := payments.InitiateSTKPush(ctx, &dto.STKPushRequest{
		OrderID:     order.ID,
		PhoneNumber: "254794157205",
	})
	require.NoError(t, err)

	assert.Equal(t, "ws_CO_1", resp.CheckoutRequestID)
	assert.Equal(t, 1, daraja.calls)
	assert.True(t, daraja.lastAmt.Equal(order.Total))

	session, err := env.sessionRepo.FindByCheckoutRequestID(ctx, "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, session.OrderID)
	assert.Equal(t, model.PaymentStatusInitiated, session.Status)
	assert.Equal(t, "254794157205", session.PhoneNumber)
}

func TestInitiateSTKPush_OrderMustBePending(t *testing.T) {
	env := newTestEnv(t)
	payments := env.paymentService(&fakeDaraja{})
	ctx := context.Background()

	order := placePendingOrder(t, env)
	_, err := env.orderService().UpdateStatus(ctx, order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)

	_, err = payments.InitiateSTKPush(ctx, &dto.STKPushRequest{
		OrderID:     order.ID,
		PhoneNumber: "254794157205",
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestHandleCallback_SuccessConfirmsOrder(t *testing.T) {
	env := newTestEnv(t)
	payments := env.paymentService(&fakeDaraja{})
	ctx := context.Background()

	order := placePendingOrder(t, env)
	_, err := payments.InitiateSTKPush(ctx, &dto.STKPushRequest{
		OrderID:     order.ID,
		PhoneNumber: "254794157205",
	})
	require.NoError(t, err)

	require.NoError(t, payments.HandleCallback(ctx, successCallback("ws_CO_1")))

	session, err := env.sessionRepo.FindByCheckoutRequestID(ctx, "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSucceeded, session.Status)
	assert.Equal(t, "NLJ7RT61SV", session.MpesaReceipt)
	require.NotNil(t, session.ResultCode)
	assert.Zero(t, *session.ResultCode)

	reloaded, err := env.orderService().GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, reloaded.Status)
}

func TestHandleCallback_ReplayIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	payments := env.paymentService(&fakeDaraja{})
	ctx := context.Background()

	order := placePendingOrder(t, env)
	_, err := payments.InitiateSTKPush(ctx, &dto.STKPushRequest{
		OrderID:     order.ID,
		PhoneNumber: "254794157205",
	})
	require.NoError(t, err)

	require.NoError(t, payments.HandleCallback(ctx, successCallback("ws_CO_1")))

	// gateway retry: same envelope again
	require.NoError(t, payments.HandleCallback(ctx, successCallback("ws_CO_1")))

	reloaded, err := env.orderService().GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, reloaded.Status)

	session, err := env.sessionRepo.FindByCheckoutRequestID(ctx, "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSucceeded, session.Status)
}

func TestHandleCallback_FailureLeavesOrderPending(t *testing.T) {
	env := newTestEnv(t)
	payments := env.paymentService(&fakeDaraja{})
	ctx := context.Background()

	order := placePendingOrder(t, env)
	_, err := payments.InitiateSTKPush(ctx, &dto.STKPushRequest{
		OrderID:     order.ID,
		PhoneNumber: "254794157205",
	})
	require.NoError(t, err)

	// error envelope: no metadata
	envelope := &model.STKCallbackEnvelope{
		Body: model.STKCallbackBody{
			StkCallback: model.STKCallback{
				MerchantRequestID: "mr_1",
				CheckoutRequestID: "ws_CO_1",
				ResultCode:        1032,
				ResultDesc:        "Request cancelled by user",
			},
		},
	}
	require.NoError(t, payments.HandleCallback(ctx, envelope))

	session, err := env.sessionRepo.FindByCheckoutRequestID(ctx, "ws_CO_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, session.Status)
	require.NotNil(t, session.ResultCode)
	assert.Equal(t, 1032, *session.ResultCode)

	// the buyer can retry the push
	reloaded, err := env.orderService().GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, reloaded.Status)
}

func TestHandleCallback_UnknownSessionIsAccepted(t *testing.T) {
	env := newTestEnv(t)
	payments := env.paymentService(&fakeDaraja{})

	err := payments.HandleCallback(context.Background(), successCallback("ws_CO_unknown"))
	assert.NoError(t, err)
}

// Full flow: cart -> checkout -> push -> callback -> confirmed order.
func TestCheckoutAndPaymentScenario(t *testing.T) {
	env := newTestEnv(t)
	carts := env.cartService()
	orders := env.orderService()
	payments := env.paymentService(&fakeDaraja{})
	ctx := context.Background()

	user := env.seedUser(t)
	product := env.seedProduct(t, "100.00")

	cart, err := carts.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.True(t, cart.Total.Equal(decimal.RequireFromString("200.00")))

	env.seedAddress(t, user.ID)

	order, err := orders.Checkout(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	require.True(t, order.Total.Equal(decimal.RequireFromString("200.00")))

	cart, err = carts.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)

	ack, err := payments.InitiateSTKPush(ctx, &dto.STKPushRequest{
		OrderID:     order.ID,
		PhoneNumber: "254794157205",
	})
	require.NoError(t, err)
	require.Equal(t, "ws_CO_1", ack.CheckoutRequestID)

	require.NoError(t, payments.HandleCallback(ctx, successCallback(ack.CheckoutRequestID)))

	final, err := orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, final.Status)
}
