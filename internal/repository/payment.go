package repository

import (
	"context"
	"time"

	"rustic-lights-backend/internal/model"

	"gorm.io/gorm"
)

type PaymentSessionRepository interface {
	Create(ctx context.Context, session *model.PaymentSession) error
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.PaymentSession, error)
	// Settle moves a session out of INITIATED. The WHERE guard makes replayed
	// callbacks no-ops: it reports false when the session was already settled.
	Settle(ctx context.Context, tx *gorm.DB, checkoutRequestID, status string, update SettleUpdate) (bool, error)
}

type SettleUpdate struct {
	ResultCode      int
	ResultDesc      string
	MpesaReceipt    string
	TransactionTime string
}

type paymentSessionRepoImpl struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) PaymentSessionRepository {
	return &paymentSessionRepoImpl{db: db}
}

func (r *paymentSessionRepoImpl) Create(ctx context.Context, session *model.PaymentSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *paymentSessionRepoImpl) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.PaymentSession, error) {
	var session model.PaymentSession
	err := r.db.WithContext(ctx).
		First(&session, "checkout_request_id = ?", checkoutRequestID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *paymentSessionRepoImpl) Settle(ctx context.Context, tx *gorm.DB, checkoutRequestID, status string, update SettleUpdate) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.PaymentSession{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, model.PaymentStatusInitiated).
		Updates(map[string]interface{}{
			"status":           status,
			"result_code":      update.ResultCode,
			"result_desc":      update.ResultDesc,
			"mpesa_receipt":    update.MpesaReceipt,
			"transaction_time": update.TransactionTime,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
