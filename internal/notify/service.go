// Package notify implements the per-request notification pipeline:
// resolve entities, resolve recipients, render, dispatch, and optionally
// fan out to a secondary notification. Each invocation is stateless and
// independent; no state persists across calls and no delivery guarantee
// extends beyond the immediate provider call.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"kudosnotify/internal/types"
)

// Subjects and call-to-action text, fixed per notification kind.
const (
	subjectKudos        = "New Kudos Received! \U0001F31F"
	subjectRewardStatus = "Reward Status Update \U0001F381"
	subjectAdminClaim   = "New Reward Claim"

	buttonViewKudos   = "View Your Kudos"
	buttonCheckStatus = "Check Status"
	buttonViewDetails = "View Details"
	buttonReviewClaim = "Review Claim"
)

// KudosReader resolves a kudos with its sender and receiver profiles.
type KudosReader interface {
	GetByID(ctx context.Context, id string) (*types.Kudos, error)
}

// RewardReader resolves a reward with its owning company.
type RewardReader interface {
	GetByID(ctx context.Context, id string) (*types.Reward, error)
}

// ProfileReader resolves a profile by user reference.
type ProfileReader interface {
	GetByUserID(ctx context.Context, userID string) (*types.Profile, error)
}

// MemberReader resolves a company's admin members with profiles joined.
type MemberReader interface {
	ListCompanyAdmins(ctx context.Context, companyID string) ([]types.CompanyMember, error)
}

// EmailProvider dispatches one envelope and returns the provider receipt.
// Retry behavior is owned by the implementation.
type EmailProvider interface {
	Send(ctx context.Context, envelope types.Envelope) (*types.ProviderReceipt, error)
}

// ServiceConfig holds the parameters needed to construct a Service.
type ServiceConfig struct {
	// FromAddress is the fixed sender identity for every envelope.
	FromAddress string
	// AppBaseURL is the public application URL for call-to-action links
	// (no trailing slash).
	AppBaseURL string
	// UnsubscribeAddress backs the List-Unsubscribe header on
	// deduplicated generic sends.
	UnsubscribeAddress string
}

// Service is the notification orchestrator. One Notify call runs one
// pipeline to completion or failure.
type Service struct {
	kudos    KudosReader
	rewards  RewardReader
	profiles ProfileReader
	members  MemberReader
	provider EmailProvider
	renderer *Renderer
	cfg      ServiceConfig
	logger   *slog.Logger

	// newRef produces the short dedup reference appended to generic
	// subjects; injectable for deterministic tests.
	newRef func() string
}

// NewService constructs the orchestrator with its collaborators.
func NewService(
	kudos KudosReader,
	rewards RewardReader,
	profiles ProfileReader,
	members MemberReader,
	provider EmailProvider,
	renderer *Renderer,
	cfg ServiceConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		kudos:    kudos,
		rewards:  rewards,
		profiles: profiles,
		members:  members,
		provider: provider,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
		newRef:   shortRef,
	}
}

// Notify runs the pipeline for one notification request. Fatal errors
// (missing rows, missing recipients, exhausted delivery retries) abort
// the orchestration; fan-out and chained-notification failures are
// logged and swallowed so a best-effort side notification can never fail
// the user-facing operation.
func (s *Service) Notify(ctx context.Context, req Request) (*Result, error) {
	switch req.Kind {
	case KindKudos:
		return s.notifyKudos(ctx, req)
	case KindRewardStatus:
		return s.notifyRewardStatus(ctx, req)
	case KindAdminClaim:
		return s.notifyAdminClaim(ctx, req)
	case KindGeneric:
		return s.notifyGeneric(ctx, req)
	default:
		return nil, types.NewAppError(
			types.ErrCodeValidationMissingField,
			fmt.Sprintf("unknown notification kind %q", req.Kind),
			nil,
		)
	}
}

// notifyKudos emails the receiver of a kudos about what the sender said.
func (s *Service) notifyKudos(ctx context.Context, req Request) (*Result, error) {
	kudos, err := s.kudos.GetByID(ctx, req.KudosID)
	if err != nil {
		return nil, err
	}

	if kudos.Receiver.Email == "" {
		return nil, types.NewAppError(
			types.ErrCodeNotFoundRecipient,
			"receiver email not found",
			nil,
		)
	}

	senderName := kudos.Sender.FullName()
	if senderName == "" {
		senderName = "Someone"
	}
	message := kudos.Message
	if message == "" {
		message = "You received kudos!"
	}

	html, err := s.renderer.Render(TemplateKudos, TemplateData{
		Title:      subjectKudos,
		FirstName:  firstNameOr(kudos.Receiver.FirstName, "there"),
		Message:    fmt.Sprintf("%s sent you kudos: %s", senderName, message),
		ButtonText: buttonViewKudos,
		ButtonURL:  s.cfg.AppBaseURL + "/dashboard",
	})
	if err != nil {
		return nil, err
	}

	receipt, err := s.provider.Send(ctx, types.Envelope{
		From:    s.cfg.FromAddress,
		To:      []string{kudos.Receiver.Email},
		Subject: subjectKudos,
		HTML:    html,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("kudos email sent",
		"kudos_id", kudos.ID,
		"receiver_id", kudos.ReceiverID,
		"receipt_id", receipt.ID,
	)
	return &Result{Receipt: receipt, Sent: 1}, nil
}

// notifyRewardStatus emails a claimant that their reward claim was
// approved or declined.
func (s *Service) notifyRewardStatus(ctx context.Context, req Request) (*Result, error) {
	profile, err := s.profiles.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, types.NewAppError(
			types.ErrCodeNotFoundRecipient,
			"could not find user email",
			nil,
		)
	}

	statusText := "declined"
	if req.Status == StatusConfirmed {
		statusText = "approved"
	}
	subject := fmt.Sprintf("Your reward claim has been %s", statusText)

	html, err := s.renderer.Render(TemplateRewardStatus, TemplateData{
		Title:      subject,
		FirstName:  firstNameOr(profile.FirstName, "there"),
		StatusText: statusText,
		Notes:      req.AdminNotes,
		ButtonText: buttonViewDetails,
		ButtonURL:  s.cfg.AppBaseURL + "/rewards",
	})
	if err != nil {
		return nil, err
	}

	receipt, err := s.provider.Send(ctx, types.Envelope{
		From:    s.cfg.FromAddress,
		To:      []string{profile.Email},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reward status email sent",
		"user_id", req.UserID,
		"status", req.Status,
		"receipt_id", receipt.ID,
	)
	return &Result{Receipt: receipt, Sent: 1}, nil
}

// notifyAdminClaim fans a claim alert out to every admin of the reward's
// owning company. An empty admin set completes successfully with zero
// sends; one admin's failure never aborts the remaining sends.
func (s *Service) notifyAdminClaim(ctx context.Context, req Request) (*Result, error) {
	reward, err := s.rewards.GetByID(ctx, req.RewardID)
	if err != nil {
		return nil, err
	}
	claimant, err := s.profiles.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	admins, err := s.members.ListCompanyAdmins(ctx, reward.CompanyID)
	if err != nil {
		return nil, err
	}

	if len(admins) == 0 {
		s.logger.Info("no company admins to notify",
			"reward_id", reward.ID,
			"company_id", reward.CompanyID,
		)
		return &Result{Sent: 0}, nil
	}

	html, err := s.renderer.Render(TemplateAdminClaim, TemplateData{
		Title:        subjectAdminClaim,
		RewardName:   reward.Name,
		ClaimantName: claimant.FullName(),
		PointsCost:   reward.PointsCost,
		ButtonText:   buttonReviewClaim,
		ButtonURL:    s.cfg.AppBaseURL + "/admin/rewards",
	})
	if err != nil {
		return nil, err
	}

	sent := 0
	for _, admin := range admins {
		if admin.Profile.Email == "" {
			s.logger.Warn("skipping admin without email",
				"company_id", admin.CompanyID,
				"user_id", admin.UserID,
			)
			continue
		}

		receipt, err := s.provider.Send(ctx, types.Envelope{
			From:    s.cfg.FromAddress,
			To:      []string{admin.Profile.Email},
			Subject: subjectAdminClaim,
			HTML:    html,
		})
		if err != nil {
			// Partial fan-out failure: logged, never propagated.
			s.logger.Error("failed to send admin claim email",
				"reward_id", reward.ID,
				"admin_user_id", admin.UserID,
				"error", err,
			)
			continue
		}

		sent++
		s.logger.Info("admin claim email sent",
			"reward_id", reward.ID,
			"admin_user_id", admin.UserID,
			"receipt_id", receipt.ID,
		)
	}

	return &Result{Sent: sent}, nil
}

// notifyGeneric emails an explicit address with a templated body, using a
// dedup reference in the subject and transport headers. When the request
// concerns a reward claim (EmailTypeRewardStatus with both ids present),
// a chained admin-claim orchestration runs after the primary send
// succeeds; its failure is logged and swallowed.
func (s *Service) notifyGeneric(ctx context.Context, req Request) (*Result, error) {
	if req.To == "" {
		return nil, types.NewAppError(
			types.ErrCodeNotFoundRecipient,
			"recipient address is required",
			nil,
		)
	}

	var subject, message, buttonText string
	if req.EmailType == EmailTypeKudos {
		subject = subjectKudos
		buttonText = buttonViewKudos
		message = "Someone has sent you kudos! Click below to see who and what they said."
	} else {
		subject = subjectRewardStatus
		buttonText = buttonCheckStatus
		message = "There's been an update to one of your rewards. Click below to see the details."
	}

	html, err := s.renderer.Render(TemplateGeneric, TemplateData{
		Title:      subject,
		Message:    message,
		ButtonText: buttonText,
		ButtonURL:  s.cfg.AppBaseURL + "/dashboard",
	})
	if err != nil {
		return nil, err
	}

	ref := s.newRef()
	receipt, err := s.provider.Send(ctx, types.Envelope{
		From:    s.cfg.FromAddress,
		To:      []string{req.To},
		Subject: fmt.Sprintf("%s #%s", subject, ref),
		HTML:    html,
		Headers: map[string]string{
			types.HeaderEntityRef:   fmt.Sprintf("%s-%s", req.EmailType, ref),
			types.HeaderUnsubscribe: fmt.Sprintf("<mailto:%s>", s.cfg.UnsubscribeAddress),
			types.HeaderPrecedence:  "bulk",
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("notification email sent",
		"to", req.To,
		"type", req.EmailType,
		"receipt_id", receipt.ID,
	)

	// Chained notification: a reward claim additionally alerts the
	// owning company's admins. This runs in-process and is best-effort.
	if req.EmailType == EmailTypeRewardStatus && req.RewardID != "" && req.UserID != "" {
		if _, err := s.notifyAdminClaim(ctx, Request{
			Kind:     KindAdminClaim,
			RewardID: req.RewardID,
			UserID:   req.UserID,
		}); err != nil {
			s.logger.Error("chained admin notification failed",
				"reward_id", req.RewardID,
				"user_id", req.UserID,
				"error", err,
			)
		}
	}

	return &Result{Receipt: receipt, Sent: 1}, nil
}

// firstNameOr returns the first name, or the fallback greeting when the
// profile has none.
func firstNameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// shortRef produces a short unique reference for subject deduplication.
func shortRef() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
