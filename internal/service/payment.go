package service

import (
	"context"
	"strconv"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/client"
	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/model"
	"rustic-lights-backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService interface {
	InitiateSTKPush(ctx context.Context, req *dto.STKPushRequest) (*dto.STKPushResponse, error)
	HandleCallback(ctx context.Context, envelope *model.STKCallbackEnvelope) error
}

type paymentServiceImpl struct {
	db           *gorm.DB
	log          *zap.Logger
	darajaClient client.DarajaClient
	orderRepo    repository.OrderRepository
	sessionRepo  repository.PaymentSessionRepository
}

func NewPaymentService(
	db *gorm.DB,
	log *zap.Logger,
	darajaClient client.DarajaClient,
	orderRepo repository.OrderRepository,
	sessionRepo repository.PaymentSessionRepository,
) PaymentService {
	return &paymentServiceImpl{
		db:           db,
		log:          log,
		darajaClient: darajaClient,
		orderRepo:    orderRepo,
		sessionRepo:  sessionRepo,
	}
}

// InitiateSTKPush asks the gateway to prompt the payer and records a
// PaymentSession correlating the gateway's checkout request id with the
// order. The push is accepted asynchronously; the session is settled by the
// callback, which may arrive before this function's HTTP response is
// delivered.
func (s *paymentServiceImpl) InitiateSTKPush(ctx context.Context, req *dto.STKPushRequest) (*dto.STKPushResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if order.Status != model.OrderStatusPending {
		return nil, apperr.Conflict("Order is not awaiting payment")
	}

	ack, err := s.darajaClient.STKPush(ctx, req.PhoneNumber, order.Total)
	if err != nil {
		return nil, err
	}

	session := &model.PaymentSession{
		OrderID:           order.ID,
		MerchantRequestID: ack.MerchantRequestID,
		CheckoutRequestID: ack.CheckoutRequestID,
		Status:            model.PaymentStatusInitiated,
		Amount:            order.Total,
		PhoneNumber:       req.PhoneNumber,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("stk push accepted",
		zap.String("order_id", order.ID.String()),
		zap.String("checkout_request_id", ack.CheckoutRequestID),
	)

	return &dto.STKPushResponse{
		MerchantRequestID: ack.MerchantRequestID,
		CheckoutRequestID: ack.CheckoutRequestID,
		CustomerMessage:   ack.CustomerMessage,
	}, nil
}

// HandleCallback reconciles the asynchronous payment result. It never returns
// an error for an unmatched or replayed callback: the gateway would only
// retry, and retries must stay no-ops.
func (s *paymentServiceImpl) HandleCallback(ctx context.Context, envelope *model.STKCallbackEnvelope) error {
	cb := envelope.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return apperr.InvalidInput("Callback missing CheckoutRequestID")
	}

	session, err := s.sessionRepo.FindByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err != nil {
		s.log.Warn("callback for unknown payment session",
			zap.String("checkout_request_id", cb.CheckoutRequestID),
			zap.Int("result_code", cb.ResultCode),
		)
		return nil
	}

	update := repository.SettleUpdate{
		ResultCode:      cb.ResultCode,
		ResultDesc:      cb.ResultDesc,
		MpesaReceipt:    metadataValue(cb.CallbackMetadata, "MpesaReceiptNumber"),
		TransactionTime: metadataValue(cb.CallbackMetadata, "TransactionDate"),
	}

	if cb.ResultCode != 0 {
		// Payment failed or was cancelled on the handset. The order stays
		// PENDING so the buyer can retry the push.
		settled, err := s.sessionRepo.Settle(ctx, s.db, cb.CheckoutRequestID, model.PaymentStatusFailed, update)
		if err != nil {
			return err
		}
		if !settled {
			s.log.Info("replayed callback ignored",
				zap.String("checkout_request_id", cb.CheckoutRequestID))
			return nil
		}
		s.log.Info("payment failed",
			zap.String("order_id", session.OrderID.String()),
			zap.Int("result_code", cb.ResultCode),
			zap.String("result_desc", cb.ResultDesc),
		)
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		settled, err := s.sessionRepo.Settle(ctx, tx, cb.CheckoutRequestID, model.PaymentStatusSucceeded, update)
		if err != nil {
			return err
		}
		if !settled {
			s.log.Info("replayed callback ignored",
				zap.String("checkout_request_id", cb.CheckoutRequestID))
			return nil
		}

		confirmed, err := s.orderRepo.UpdateStatus(ctx, tx, session.OrderID,
			[]string{model.OrderStatusPending}, model.OrderStatusConfirmed)
		if err != nil {
			return err
		}
		if !confirmed {
			s.log.Warn("paid order was not pending",
				zap.String("order_id", session.OrderID.String()))
			return nil
		}

		s.log.Info("payment confirmed",
			zap.String("order_id", session.OrderID.String()),
			zap.String("receipt", update.MpesaReceipt),
		)
		return nil
	})
}

// metadataValue extracts a named item from the success envelope's metadata.
// Values arrive as JSON strings or numbers depending on the item.
func metadataValue(md *model.CallbackMetadata, name string) string {
	if md == nil {
		return ""
	}
	for _, item := range md.Item {
		if item.Name != name {
			continue
		}
		switch v := item.Value.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
