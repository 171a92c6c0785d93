package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByPaymentNumber finds a payment by its business number
func (r *GormPaymentRepository) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.db.WithContext(ctx).First(&payment, "payment_number = ?", paymentNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByBill finds all payments against a bill, oldest first
func (r *GormPaymentRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAll finds payments with pagination and filtering
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Payment], error) {
	base := r.db.WithContext(ctx).Model(&billing.Payment{})

	var total int64
	if err := applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var payments []billing.Payment
	if err := applyFilter(base.Session(&gorm.Session{}), filter).Find(&payments).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return shared.NewPaginated(payments, total, page, pageSize), nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SumSuccessfulByBill totals payments in SUCCESS status against a bill
func (r *GormPaymentRepository) SumSuccessfulByBill(ctx context.Context, billID uuid.UUID) (valueobject.Money, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("bill_id = ? AND status = ?", billID, billing.PaymentStatusSuccess).
		Scan(&sum).Error
	if err != nil {
		return valueobject.ZeroCNY(), err
	}
	return valueobject.NewMoneyCNY(sum), nil
}

// ExistsByBill checks if any payment references the bill, in any status
func (r *GormPaymentRepository) ExistsByBill(ctx context.Context, billID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Where("bill_id = ?", billID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePaymentNumber generates a unique payment number.
// Format: PAY + yyyymmdd + 4-digit daily sequence (e.g. PAY202608310001).
func (r *GormPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	prefix := "PAY" + time.Now().Format("20060102")

	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Where("payment_number LIKE ?", prefix+"%").
		Order("payment_number DESC").
		Limit(1).
		Pluck("payment_number", &lastNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if lastNumber != "" {
		suffix := strings.TrimPrefix(lastNumber, prefix)
		var num int64
		if _, parseErr := fmt.Sscanf(suffix, "%d", &num); parseErr == nil {
			nextNum = num + 1
		}
	}

	for i := 0; i < 100 && nextNum <= 9999; i++ {
		paymentNumber := fmt.Sprintf("%s%04d", prefix, nextNum)
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&billing.Payment{}).
			Where("payment_number = ?", paymentNumber).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return paymentNumber, nil
		}
		nextNum++
	}

	return fmt.Sprintf("%s%08d", prefix, time.Now().UnixNano()%100000000), nil
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
