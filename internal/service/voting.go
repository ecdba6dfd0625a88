package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"hackbot/internal/dto"
	"hackbot/internal/model"
	"hackbot/internal/repo"
)

// vote records one rating per (caller, target team), last write wins.
// The rating value is deliberately unbounded here.
func (s *service) vote(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	teamName := strings.TrimSpace(ic.Options["team_role"])
	if teamName == "" {
		return dto.Ephemeral(msgAllFields), nil
	}

	rating, err := strconv.Atoi(strings.TrimSpace(ic.Options["rating"]))
	if err != nil {
		return dto.Ephemeral("Rating must be an integer."), nil
	}

	if _, err := s.repo.TeamByMember(ctx, ic.Caller.UserID); err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return dto.Ephemeral("You need to be in a team to vote!"), nil
		}
		return nil, err
	}

	v := &model.Vote{
		UserID:   ic.Caller.UserID,
		TeamName: teamName,
		Rating:   rating,
	}
	if err := s.repo.UpsertVote(ctx, v); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", ic.Caller.UserID).Str("team", teamName).Msg("vote recorded")
	return dto.Ephemeral("Vote submitted"), nil
}
