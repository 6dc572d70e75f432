package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
)

// ApprovalService decides pending approval requests. A decision is one-shot:
// once approved or rejected, the request never changes again.
type ApprovalService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error)
	List(ctx context.Context, status string, page, limit int) ([]model.ApprovalRequest, int64, error)
	Approve(ctx context.Context, actor Actor, now time.Time, id uuid.UUID, notes string) (*model.ApprovalRequest, error)
	Reject(ctx context.Context, actor Actor, now time.Time, id uuid.UUID, notes string) (*model.ApprovalRequest, error)
}

type approvalService struct {
	tx         repository.TransactionManager
	approvals  repository.ApprovalRepository
	quotations repository.QuotationRepository
	orders     repository.OrderRepository
	audit      repository.AuditRepository
}

func NewApprovalService(
	tx repository.TransactionManager,
	approvals repository.ApprovalRepository,
	quotations repository.QuotationRepository,
	orders repository.OrderRepository,
	audit repository.AuditRepository,
) ApprovalService {
	return &approvalService{
		tx:         tx,
		approvals:  approvals,
		quotations: quotations,
		orders:     orders,
		audit:      audit,
	}
}

func (s *approvalService) Get(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	return s.approvals.FindByIDWithRelations(ctx, id)
}

func (s *approvalService) List(ctx context.Context, status string, page, limit int) ([]model.ApprovalRequest, int64, error) {
	return s.approvals.List(ctx, status, page, limit)
}

func (s *approvalService) Approve(ctx context.Context, actor Actor, now time.Time, id uuid.UUID, notes string) (*model.ApprovalRequest, error) {
	return s.decide(ctx, actor, now, id, notes, model.ApprovalApproved, model.ActionApproveRequest)
}

func (s *approvalService) Reject(ctx context.Context, actor Actor, now time.Time, id uuid.UUID, notes string) (*model.ApprovalRequest, error) {
	return s.decide(ctx, actor, now, id, notes, model.ApprovalRejected, model.ActionRejectRequest)
}

func (s *approvalService) decide(ctx context.Context, actor Actor, now time.Time, id uuid.UUID, notes, decision, action string) (*model.ApprovalRequest, error) {
	if err := actor.require(capDecideApproval); err != nil {
		return nil, err
	}

	var req *model.ApprovalRequest
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		req, err = s.approvals.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if req.Status != model.ApprovalPending {
			return &StateError{Entity: "approval request", Current: req.Status, Action: "decide"}
		}

		req.Status = decision
		req.DecidedByID = &actor.ID
		req.DecidedAt = &now
		if notes != "" {
			req.Notes = notes
		}
		if err := s.approvals.Save(txCtx, req); err != nil {
			return err
		}

		// Propagate the decision to the linked document so its confirm
		// gate sees the new state.
		switch req.RequestType {
		case model.ApprovalReqTypeQuotation:
			if req.QuotationID != nil {
				quotation, err := s.quotations.FindByID(txCtx, *req.QuotationID)
				if err != nil {
					return err
				}
				quotation.ApprovalStatus = decision
				if decision == model.ApprovalApproved {
					quotation.ApprovedByID = &actor.ID
					quotation.ApprovedAt = &now
				}
				if err := s.quotations.Save(txCtx, quotation); err != nil {
					return err
				}
			}
		case model.ApprovalReqTypeOrder:
			if req.RentalOrderID != nil {
				order, err := s.orders.FindByID(txCtx, *req.RentalOrderID)
				if err != nil {
					return err
				}
				order.ApprovalStatus = decision
				if decision == model.ApprovalApproved {
					order.ApprovedByID = &actor.ID
					order.ApprovedAt = &now
				}
				if err := s.orders.Save(txCtx, order); err != nil {
					return err
				}
			}
		}

		return s.audit.Create(txCtx, &model.AuditLog{
			UserID:     &actor.ID,
			Action:     action,
			EntityType: "approval_request",
			EntityID:   id.String(),
			OldValue:   model.ApprovalPending,
			NewValue:   decision,
		})
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}
