package service

import (
	"context"
	"encoding/json"
	"fmt"

	"hackbot/internal/dto"
	"hackbot/internal/rabbit"
	"hackbot/internal/repo"
	"hackbot/pkg/validator"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
)

const (
	msgNoPermission = "You do not have permission to use this command."
	msgAllFields    = "Please provide all the required fields."
)

type Service interface {
	HandleInteraction(ctx *ginext.Context)
}

type handlerFunc func(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error)

type command struct {
	handler   handlerFunc
	adminOnly bool
}

type service struct {
	repo     repo.Repository
	log      *zerolog.Logger
	rbt      rabbit.Publisher
	commands map[string]command
}

// NewService wires every workflow handler into a static registry keyed
// by command name. Modal submissions route through the same entry as
// the command that opened the modal.
func NewService(repo repo.Repository, logger *zerolog.Logger, rbt rabbit.Publisher) Service {
	s := &service{
		repo: repo,
		log:  logger,
		rbt:  rbt,
	}
	s.commands = map[string]command{
		"assign_csv":  {handler: s.assignCSV, adminOnly: true},
		"reset":       {handler: s.reset, adminOnly: true},
		"register":    {handler: s.register},
		"create_team": {handler: s.createTeam},
		"join_team":   {handler: s.joinTeam},
		"leave_team":  {handler: s.leaveTeam},
		"submit":      {handler: s.submitProject},
		"set_github":  {handler: s.setGithub},
		"vote":        {handler: s.vote},
	}
	return s
}

func (s *service) HandleInteraction(ctx *ginext.Context) {
	var ic dto.Interaction
	if err := ctx.ShouldBindJSON(&ic); err != nil {
		s.log.Error().Err(err).Msg("failed to parse interaction")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, ic); verr != nil {
		s.log.Error().Msgf("interaction validation failed: %v", verr)
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	cmd, ok := s.commands[ic.Command]
	if !ok {
		dto.BadResponseError(ctx, dto.UnknownCommand, "Unknown command: "+ic.Command)
		return
	}

	if cmd.adminOnly && !ic.Caller.Admin {
		dto.SuccessResponse(ctx, dto.Ephemeral(msgNoPermission))
		return
	}

	reply, err := cmd.handler(ctx.Request.Context(), &ic)
	if err != nil {
		s.log.Error().Err(err).Str("command", ic.Command).Msg("workflow failed")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, reply)
}

// queueRole hands a role mutation to the worker queue after the data
// change committed. A publish failure is logged, never surfaced to the
// caller: the reply already reflects the committed state.
func (s *service) queueRole(op string, userID int64, roleName string) {
	msg := dto.RoleOperateMessage{
		Op:       op,
		UserID:   userID,
		RoleName: roleName,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal role message")
		return
	}
	if err := s.rbt.Publish(payload, 0); err != nil {
		s.log.Error().
			Err(err).
			Str("op", op).
			Int64("user_id", userID).
			Str("role", roleName).
			Msg("failed to publish role message")
	}
}
