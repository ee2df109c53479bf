package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/email"
)

// Dispatcher delivers fire-and-forget notifications to group members.
// Delivery (push, email, in-app) is an external concern; callers only
// trigger it and never wait on the outcome.
type Dispatcher interface {
	NotifyGroup(ctx context.Context, groupID int64, message string)
}

// LogDispatcher is the development dispatcher, it writes notifications to the
// log instead of delivering them
type LogDispatcher struct {
	logger zerolog.Logger
}

// NewLogDispatcher creates a new LogDispatcher
func NewLogDispatcher(logger zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// NotifyGroup logs the notification
func (d *LogDispatcher) NotifyGroup(_ context.Context, groupID int64, message string) {
	d.logger.Info().
		Int64("groupId", groupID).
		Str("message", message).
		Msg("Group notification dispatched")
}

// MemberLister resolves the recipients of a group notification
type MemberLister interface {
	GetMembersByGroupID(ctx context.Context, groupID int64) ([]*models.GroupMember, error)
}

// EmailDispatcher delivers group notifications by email to every member.
// Failures are logged, never surfaced; a missed email must not fail the
// operation that triggered it.
type EmailDispatcher struct {
	mailer  email.Mailer
	members MemberLister
	logger  zerolog.Logger
}

// NewEmailDispatcher creates a new EmailDispatcher
func NewEmailDispatcher(mailer email.Mailer, members MemberLister, logger zerolog.Logger) *EmailDispatcher {
	return &EmailDispatcher{
		mailer:  mailer,
		members: members,
		logger:  logger,
	}
}

// NotifyGroup emails the notification to all group members
func (d *EmailDispatcher) NotifyGroup(ctx context.Context, groupID int64, message string) {
	members, err := d.members.GetMembersByGroupID(ctx, groupID)
	if err != nil {
		d.logger.Error().Err(err).Int64("groupId", groupID).Msg("Failed to resolve notification recipients")
		return
	}

	recipients := make([]string, 0, len(members))
	for _, member := range members {
		if member.Student != nil && member.Student.Email != "" {
			recipients = append(recipients, member.Student.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}

	if err := d.mailer.Send(recipients, "Edusiastic group update", email.GroupNoticeBody(message)); err != nil {
		d.logger.Error().Err(err).Int64("groupId", groupID).Msg("Failed to send group notification email")
		return
	}

	d.logger.Info().
		Int64("groupId", groupID).
		Int("recipients", len(recipients)).
		Msg("Group notification emailed")
}
