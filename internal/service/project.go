package service

import (
	"context"
	"errors"
	"strings"

	"hackbot/internal/dto"
	"hackbot/internal/model"
	"hackbot/internal/repo"
)

func (s *service) submitProject(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	name := strings.TrimSpace(ic.Options["project_name"])
	url := strings.TrimSpace(ic.Options["project_url"])
	description := strings.TrimSpace(ic.Options["project_description"])
	thumbnail := strings.TrimSpace(ic.Options["thumbnail_url"])

	if name == "" || url == "" || description == "" || thumbnail == "" {
		return dto.Ephemeral(msgAllFields), nil
	}

	team, err := s.repo.TeamByMember(ctx, ic.Caller.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return dto.Ephemeral("You are not in a team. Create or join a team to submit a project."), nil
		}
		return nil, err
	}

	project := &model.Project{
		TeamName:    team.TeamName,
		ProjectName: name,
		ProjectURL:  url,
		Description: description,
		Thumbnail:   thumbnail,
	}
	if err := s.repo.UpsertProjectTx(ctx, project); err != nil {
		if errors.Is(err, repo.ErrProjectNameTaken) {
			return dto.Ephemeral("Project name is already taken."), nil
		}
		return nil, err
	}

	s.log.Info().Str("team", team.TeamName).Str("project", name).Msg("project submitted")
	return dto.Ephemeral("Project submitted successfully."), nil
}

func (s *service) setGithub(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	username := strings.TrimSpace(ic.Options["github_username"])
	if username == "" {
		return dto.Ephemeral(msgAllFields), nil
	}

	if err := s.repo.UpsertGithubProfile(ctx, ic.Caller.UserID, username); err != nil {
		return nil, err
	}

	return dto.Ephemeral("GitHub Username successfully set to https://github.com/" + username), nil
}
