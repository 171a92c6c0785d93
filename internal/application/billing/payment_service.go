package billing

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService reconciles agent payments against confirmed bills. A bill
// flips to PAID automatically once the fixed-point sum of its SUCCESS
// payments covers the commission amount.
type PaymentService struct {
	scope        TransactionScope
	paymentRepo  billing.PaymentRepository
	auditor      BillAuditor
	proofStorage ProofStorage
	logger       *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, paymentRepo billing.PaymentRepository, auditor BillAuditor, proofStorage ProofStorage, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		scope:        scope,
		paymentRepo:  paymentRepo,
		auditor:      auditor,
		proofStorage: proofStorage,
		logger:       logger,
	}
}

// CreatePayment records a pending payment against a confirmed bill. The
// amount must be positive and must not exceed the bill's commission amount.
func (s *PaymentService) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentResponse, error) {
	amount, err := valueobject.NewMoneyCNYFromString(req.Amount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount is not a valid number")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	var payment *billing.Payment
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByID(ctx, req.BillID)
		if err != nil {
			return err
		}
		if bill.Status != billing.BillStatusConfirmed {
			return shared.NewDomainError("BILL_NOT_CONFIRMED",
				"Payments can only be created against confirmed bills")
		}

		exceeds, err := amount.GreaterThan(bill.CommissionAmount)
		if err != nil {
			return err
		}
		if exceeds {
			return shared.NewDomainError("AMOUNT_EXCEEDS_COMMISSION",
				"Payment amount cannot exceed the bill's commission amount")
		}

		paymentNumber, err := repos.PaymentRepo().GeneratePaymentNumber(ctx)
		if err != nil {
			return err
		}
		payment, err = billing.NewPayment(paymentNumber, bill.ID, bill.AgentID, amount, billing.PaymentMethod(req.Method))
		if err != nil {
			return err
		}
		payment.Remark = req.Remark

		return repos.PaymentRepo().Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(payment), nil
}

// ProcessPaymentSuccess marks a pending payment as received and flips the
// bill to PAID when the commission is now fully covered. Returns false
// without error when the payment is not pending.
func (s *PaymentService) ProcessPaymentSuccess(ctx context.Context, paymentID uuid.UUID, transactionID string, operator billing.Operator) (bool, error) {
	processed := false

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != billing.PaymentStatusPending {
			s.logger.Warn("payment success ignored, not pending",
				zap.String("payment_number", payment.PaymentNumber),
				zap.String("status", string(payment.Status)))
			return nil
		}

		if err := payment.MarkSuccess(transactionID); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}

		if err := s.settleBill(ctx, repos, payment.BillID, payment.PaymentNumber, operator); err != nil {
			return err
		}
		processed = true
		return nil
	})
	return processed, err
}

// settleBill refreshes the bill's paid amount from the SUCCESS payment sum
// and marks it PAID once the commission is covered. reference is the payment
// number that triggered the settlement.
func (s *PaymentService) settleBill(ctx context.Context, repos TransactionalRepositories, billID uuid.UUID, reference string, operator billing.Operator) error {
	bill, err := repos.BillRepo().FindByID(ctx, billID)
	if err != nil {
		return err
	}

	paid, err := repos.PaymentRepo().SumSuccessfulByBill(ctx, billID)
	if err != nil {
		return err
	}
	if err := bill.ApplyPaidAmount(paid); err != nil {
		return err
	}

	if bill.Status == billing.BillStatusConfirmed && bill.IsFullyPaid() {
		if err := bill.MarkAsPaid(reference); err != nil {
			return err
		}
		s.auditor.LogStatusChange(ctx, repos.AuditRepo(), bill,
			billing.BillStatusConfirmed, billing.BillStatusPaid, "commission covered by payments", operator)
	}

	return repos.BillRepo().Save(ctx, bill)
}

// ProcessPaymentFailure marks a pending payment as failed. Returns false
// without error when the payment is not pending.
func (s *PaymentService) ProcessPaymentFailure(ctx context.Context, paymentID uuid.UUID, reason string) (bool, error) {
	processed := false

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != billing.PaymentStatusPending {
			s.logger.Warn("payment failure ignored, not pending",
				zap.String("payment_number", payment.PaymentNumber),
				zap.String("status", string(payment.Status)))
			return nil
		}

		if err := payment.MarkFailed(reason); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		processed = true
		return nil
	})
	return processed, err
}

// ConfirmPayment sets the administrative reconciliation flag on a successful
// payment. Returns false without error when the payment is not successful.
func (s *PaymentService) ConfirmPayment(ctx context.Context, paymentID, operatorID uuid.UUID) (bool, error) {
	confirmed := false

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != billing.PaymentStatusSuccess {
			s.logger.Warn("payment confirmation skipped, not successful",
				zap.String("payment_number", payment.PaymentNumber),
				zap.String("status", string(payment.Status)))
			return nil
		}

		if err := payment.ConfirmByAdmin(operatorID); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		confirmed = true
		return nil
	})
	return confirmed, err
}

// AttachPaymentProof stores the uploaded transfer-proof location
func (s *PaymentService) AttachPaymentProof(ctx context.Context, paymentID uuid.UUID, proofURL string) (*PaymentResponse, error) {
	var payment *billing.Payment

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		payment.AttachProof(proofURL)
		return repos.PaymentRepo().Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(payment), nil
}

// UploadPaymentProof stores an uploaded transfer-proof file and attaches its
// storage key to the payment. The key, not a signed URL, is persisted;
// download URLs are generated on demand via GetPaymentProofURL.
func (s *PaymentService) UploadPaymentProof(ctx context.Context, paymentID uuid.UUID, filename, contentType string, data []byte) (*PaymentResponse, error) {
	if s.proofStorage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Proof storage is not configured")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Proof file is empty")
	}

	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("payment-proofs/%s/%d_%s", payment.PaymentNumber, time.Now().Unix(), filepath.Base(filename))
	if err := s.proofStorage.Upload(ctx, key, data, contentType); err != nil {
		s.logger.Error("payment proof upload failed",
			zap.String("payment_number", payment.PaymentNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to store payment proof: %w", err)
	}

	return s.AttachPaymentProof(ctx, paymentID, key)
}

// GetPaymentProofURL returns a short-lived download URL for a payment's
// stored proof
func (s *PaymentService) GetPaymentProofURL(ctx context.Context, paymentID uuid.UUID) (string, error) {
	if s.proofStorage == nil {
		return "", shared.NewDomainError("STORAGE_UNAVAILABLE", "Proof storage is not configured")
	}

	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return "", err
	}
	if payment.ProofURL == "" {
		return "", shared.NewDomainError("PROOF_NOT_FOUND", "No proof has been uploaded for this payment")
	}

	url, _, err := s.proofStorage.DownloadURL(ctx, payment.ProofURL, 15*time.Minute)
	return url, err
}

// GetBillPayments lists every payment recorded against a bill
func (s *PaymentService) GetBillPayments(ctx context.Context, billID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, 0, len(payments))
	for idx := range payments {
		responses = append(responses, *ToPaymentResponse(&payments[idx]))
	}
	return responses, nil
}
