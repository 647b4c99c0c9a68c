package repository

import (
	"context"

	"github.com/communityarts/raffle-service/internal/models"
	"gorm.io/gorm"
)

type PaymentSessionRepository interface {
	Create(ctx context.Context, session *models.PaymentSession) error
	FindByID(ctx context.Context, id string) (*models.PaymentSession, error)
	SetInvoice(ctx context.Context, id, invoice string) error
	MarkPaid(ctx context.Context, tx *gorm.DB, id string) (bool, error)
	MarkCancelled(ctx context.Context, id string) error
	GetDB() *gorm.DB
}

type paymentSessionRepository struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) PaymentSessionRepository {
	return &paymentSessionRepository{db: db}
}

func (r *paymentSessionRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *paymentSessionRepository) Create(ctx context.Context, session *models.PaymentSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *paymentSessionRepository) FindByID(ctx context.Context, id string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *paymentSessionRepository) SetInvoice(ctx context.Context, id, invoice string) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("id = ?", id).
		Update("invoice", invoice).Error
}

// MarkPaid flips pending→paid exactly once. A replayed confirmation sees
// zero rows affected and must treat the issuance as already done.
func (r *paymentSessionRepository) MarkPaid(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("id = ? AND status = ?", id, models.SessionPending).
		Update("status", models.SessionPaid)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *paymentSessionRepository) MarkCancelled(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("id = ? AND status = ?", id, models.SessionPending).
		Update("status", models.SessionCancelled).Error
}
