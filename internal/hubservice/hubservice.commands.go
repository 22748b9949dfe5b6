package hubservice

import (
	"context"

	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// IssueCommand queues an operator command for the device. kind must be
// "mode" or "pump"; value is upper-cased.
func (s *HubService) IssueCommand(ctx context.Context, kind, value string) (*models.PendingCommand, error) {
	commandKind, err := models.ParseCommandKind(kind)
	if err != nil {
		return nil, errors.NewValidationError("kind must be mode or pump", err)
	}
	cmd, err := models.NewPendingCommand(commandKind, value, s.Clock.Now())
	if err != nil {
		return nil, errors.NewValidationError("command value is required", err)
	}

	if err := s.Mailbox.Issue(ctx, cmd); err != nil {
		nuts.L.Errorf("[Mailbox] Issuing %s=%s failed: %v", cmd.Kind, cmd.Value, err)
		return nil, err
	}

	nuts.L.Infof("[Mailbox] Issued %s=%s", cmd.Kind, cmd.Value)
	s.events.Emit(EventCommandIssued, string(cmd.Kind), cmd.Value, "operator")
	return cmd, nil
}
