package service

import (
	"context"
	"testing"

	"hackbot/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitOptions(name string) map[string]string {
	return map[string]string{
		"project_name":        name,
		"project_url":         "https://example.com/repo",
		"project_description": "A thing we built",
		"thumbnail_url":       "https://example.com/thumb.png",
	}
}

func TestSubmitProject(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}

	reply, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 1}, submitOptions("Moonshot")))

	require.NoError(t, err)
	assert.Equal(t, "Project submitted successfully.", reply.Content)
	require.Contains(t, r.projects, "Rockets")
	assert.Equal(t, "Moonshot", r.projects["Rockets"].ProjectName)
}

func TestSubmitProjectRequiresAllFields(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}

	for _, missing := range []string{"project_name", "project_url", "project_description", "thumbnail_url"} {
		t.Run("missing "+missing, func(t *testing.T) {
			opts := submitOptions("Moonshot")
			opts[missing] = ""

			reply, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 1}, opts))

			require.NoError(t, err)
			assert.Equal(t, msgAllFields, reply.Content)
		})
	}
	assert.Empty(t, r.projects)
}

func TestSubmitProjectRequiresTeam(t *testing.T) {
	svc, r, _ := newTestService(t)

	reply, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 1}, submitOptions("Moonshot")))

	require.NoError(t, err)
	assert.Equal(t, "You are not in a team. Create or join a team to submit a project.", reply.Content)
	assert.Empty(t, r.projects)
}

func TestSubmitProjectNameConflict(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}
	r.teams["Comets"] = []int64{2}

	_, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 2}, submitOptions("Moonshot")))
	require.NoError(t, err)

	reply, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 1}, submitOptions("Moonshot")))
	require.NoError(t, err)
	assert.Equal(t, "Project name is already taken.", reply.Content)
	assert.NotContains(t, r.projects, "Rockets")
}

// A team resubmitting overwrites its own project row; the row stays
// keyed by team name.
func TestSubmitProjectOverwritesOwn(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}

	_, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 1}, submitOptions("Moonshot")))
	require.NoError(t, err)

	reply, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 1}, submitOptions("Starshot")))
	require.NoError(t, err)
	assert.Equal(t, "Project submitted successfully.", reply.Content)

	require.Len(t, r.projects, 1)
	assert.Equal(t, "Starshot", r.projects["Rockets"].ProjectName)
}

func TestSubmitProjectSameNameResubmit(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}

	_, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 1}, submitOptions("Moonshot")))
	require.NoError(t, err)

	opts := submitOptions("Moonshot")
	opts["project_description"] = "Updated description"
	reply, err := svc.submitProject(context.Background(), commandInteraction("submit", dto.Caller{UserID: 1}, opts))

	require.NoError(t, err)
	assert.Equal(t, "Project submitted successfully.", reply.Content)
	assert.Equal(t, "Updated description", r.projects["Rockets"].Description)
}

func TestSetGithub(t *testing.T) {
	svc, r, _ := newTestService(t)

	reply, err := svc.setGithub(context.Background(), commandInteraction("set_github", dto.Caller{UserID: 1}, map[string]string{"github_username": "octocat"}))

	require.NoError(t, err)
	assert.Equal(t, "GitHub Username successfully set to https://github.com/octocat", reply.Content)
	assert.Equal(t, "octocat", r.github[1])

	// Upsert: a second call overwrites.
	_, err = svc.setGithub(context.Background(), commandInteraction("set_github", dto.Caller{UserID: 1}, map[string]string{"github_username": "hubber"}))
	require.NoError(t, err)
	assert.Equal(t, "hubber", r.github[1])
}
