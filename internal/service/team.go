package service

import (
	"context"
	"errors"
	"strings"

	"hackbot/internal/dto"
	"hackbot/internal/repo"
)

const msgAlreadyInTeam = "You are already in a team. use /leave to leave your existing team"

func (s *service) createTeam(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	teamName := strings.TrimSpace(ic.Options["team_name"])
	if teamName == "" {
		return dto.Ephemeral(msgAllFields), nil
	}

	if err := s.repo.CreateTeamTx(ctx, teamName, ic.Caller.UserID); err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadyInTeam):
			return dto.Ephemeral(msgAlreadyInTeam), nil
		case errors.Is(err, repo.ErrTeamNameTaken):
			return dto.Ephemeral("Team name is already taken."), nil
		default:
			return nil, err
		}
	}

	s.log.Info().Str("team", teamName).Int64("user_id", ic.Caller.UserID).Msg("team created")
	s.queueRole(dto.RoleEnsureGrant, ic.Caller.UserID, teamName)

	return dto.Ephemeral("Team " + teamName + " created successfully."), nil
}

func (s *service) joinTeam(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	teamName := strings.TrimSpace(ic.Options["team_role"])
	if teamName == "" {
		return dto.Ephemeral(msgAllFields), nil
	}

	if err := s.repo.JoinTeamTx(ctx, teamName, ic.Caller.UserID); err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadyInTeam):
			return dto.Ephemeral(msgAlreadyInTeam), nil
		case errors.Is(err, repo.ErrTeamNotFound):
			return dto.Ephemeral("Team does not exist."), nil
		case errors.Is(err, repo.ErrTeamFull):
			return dto.Ephemeral("Team is full."), nil
		default:
			return nil, err
		}
	}

	s.log.Info().Str("team", teamName).Int64("user_id", ic.Caller.UserID).Msg("member joined team")
	s.queueRole(dto.RoleGrant, ic.Caller.UserID, teamName)

	return dto.Ephemeral("You have joined team " + teamName), nil
}

func (s *service) leaveTeam(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	teamName, err := s.repo.LeaveTeamTx(ctx, ic.Caller.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return dto.Ephemeral("You are not in a team."), nil
		}
		return nil, err
	}

	s.log.Info().Str("team", teamName).Int64("user_id", ic.Caller.UserID).Msg("member left team")
	s.queueRole(dto.RoleRevoke, ic.Caller.UserID, teamName)

	return dto.Ephemeral("You have left the team."), nil
}
