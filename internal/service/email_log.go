package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cmsapi/internal/mail"
	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

var ErrLogIDRequired = errors.New("logId is required")

// ResendResult reports the outcome of a resend. Success=false carries a client-facing reason in Error.
type ResendResult struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	NewLogID string `json:"newLogId,omitempty"`
}

// EmailLogService owns email logs and re-delivery of logged emails.
type EmailLogService interface {
	// GetLog returns the log with the given id or ErrNotFound.
	GetLog(ctx context.Context, id string) (*model.EmailLog, error)

	// Resend delivers the logged email again and records the attempt as a new log.
	// Delivery problems are reported in the result; the error is reserved for infrastructure failures.
	Resend(ctx context.Context, id string) (*ResendResult, error)
}

type emailLogService struct {
	repo   repository.EmailLogRepository
	sender mail.Sender
	now    func() time.Time
}

// NewEmailLogService constructs an EmailLogService.
func NewEmailLogService(repo repository.EmailLogRepository, sender mail.Sender) EmailLogService {
	return &emailLogService{repo: repo, sender: sender, now: time.Now}
}

func (s *emailLogService) GetLog(ctx context.Context, id string) (*model.EmailLog, error) {
	if id == "" {
		return nil, ErrLogIDRequired
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *emailLogService) Resend(ctx context.Context, id string) (*ResendResult, error) {
	if id == "" {
		return nil, ErrLogIDRequired
	}
	orig, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &ResendResult{Success: false, Error: "Email log not found"}, nil
		}
		return nil, err
	}

	next := &model.EmailLog{
		ID:         uuid.NewString(),
		Recipient:  orig.Recipient,
		Subject:    orig.Subject,
		HTMLBody:   orig.HTMLBody,
		ResentFrom: &orig.ID,
		CreatedAt:  s.now().UTC(),
	}

	providerID, sendErr := s.sender.Send(ctx, mail.Message{
		To:      orig.Recipient,
		Subject: orig.Subject,
		HTML:    orig.HTMLBody,
	})
	if sendErr != nil {
		msg := sendErr.Error()
		next.Status = model.EmailStatusFailed
		next.Error = &msg
	} else {
		sentAt := s.now().UTC()
		next.Status = model.EmailStatusSent
		next.ProviderMessageID = &providerID
		next.SentAt = &sentAt
	}

	if err := s.repo.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("record resend of %s: %w", id, err)
	}

	if sendErr != nil {
		return &ResendResult{Success: false, Error: sendErr.Error()}, nil
	}
	return &ResendResult{Success: true, NewLogID: next.ID}, nil
}
