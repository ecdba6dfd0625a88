package service

import (
	"context"
	"fmt"
	"testing"

	"hackbot/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam(t *testing.T) {
	svc, r, p := newTestService(t)

	reply, err := svc.createTeam(context.Background(), commandInteraction("create_team", dto.Caller{UserID: 1}, map[string]string{"team_name": "Rockets"}))

	require.NoError(t, err)
	assert.Equal(t, "Team Rockets created successfully.", reply.Content)
	assert.Equal(t, []int64{1}, r.teams["Rockets"])

	require.Len(t, p.messages, 1)
	assert.Equal(t, dto.RoleEnsureGrant, p.messages[0].Op)
	assert.Equal(t, "Rockets", p.messages[0].RoleName)
}

func TestCreateTeamRejectsExistingMember(t *testing.T) {
	svc, r, p := newTestService(t)
	r.teams["Comets"] = []int64{1}

	reply, err := svc.createTeam(context.Background(), commandInteraction("create_team", dto.Caller{UserID: 1}, map[string]string{"team_name": "Rockets"}))

	require.NoError(t, err)
	assert.Equal(t, msgAlreadyInTeam, reply.Content)
	assert.NotContains(t, r.teams, "Rockets")
	assert.Empty(t, p.messages)
}

func TestCreateTeamRejectsTakenName(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{2}

	reply, err := svc.createTeam(context.Background(), commandInteraction("create_team", dto.Caller{UserID: 1}, map[string]string{"team_name": "Rockets"}))

	require.NoError(t, err)
	assert.Equal(t, "Team name is already taken.", reply.Content)
	assert.Equal(t, []int64{2}, r.teams["Rockets"])
}

func TestCreateTeamRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)

	reply, err := svc.createTeam(context.Background(), commandInteraction("create_team", dto.Caller{UserID: 1}, nil))

	require.NoError(t, err)
	assert.Equal(t, msgAllFields, reply.Content)
}

// TestJoinTeamCapacity drives a team from its creator to the cap: five
// joiners after the creator succeed, the seventh member is turned away.
func TestJoinTeamCapacity(t *testing.T) {
	svc, r, p := newTestService(t)

	_, err := svc.createTeam(context.Background(), commandInteraction("create_team", dto.Caller{UserID: 1}, map[string]string{"team_name": "Rockets"}))
	require.NoError(t, err)

	for id := int64(2); id <= 6; id++ {
		reply, err := svc.joinTeam(context.Background(), commandInteraction("join_team", dto.Caller{UserID: id}, map[string]string{"team_role": "Rockets"}))
		require.NoError(t, err)
		assert.Equal(t, "You have joined team Rockets", reply.Content, fmt.Sprintf("joiner %d", id))
	}

	reply, err := svc.joinTeam(context.Background(), commandInteraction("join_team", dto.Caller{UserID: 7}, map[string]string{"team_role": "Rockets"}))
	require.NoError(t, err)
	assert.Equal(t, "Team is full.", reply.Content)

	assert.Len(t, r.teams["Rockets"], 6)
	// Creator got ensure_grant, five joiners got grants.
	assert.Len(t, p.messages, 6)
}

func TestJoinTeamRejectsUnknownTeam(t *testing.T) {
	svc, _, _ := newTestService(t)

	reply, err := svc.joinTeam(context.Background(), commandInteraction("join_team", dto.Caller{UserID: 1}, map[string]string{"team_role": "Ghosts"}))

	require.NoError(t, err)
	assert.Equal(t, "Team does not exist.", reply.Content)
}

func TestJoinTeamRejectsExistingMember(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{2}
	r.teams["Comets"] = []int64{1}

	reply, err := svc.joinTeam(context.Background(), commandInteraction("join_team", dto.Caller{UserID: 1}, map[string]string{"team_role": "Rockets"}))

	require.NoError(t, err)
	assert.Equal(t, msgAlreadyInTeam, reply.Content)
	assert.Equal(t, []int64{2}, r.teams["Rockets"])
}

func TestLeaveTeam(t *testing.T) {
	svc, r, p := newTestService(t)
	r.teams["Rockets"] = []int64{1, 2}

	reply, err := svc.leaveTeam(context.Background(), commandInteraction("leave_team", dto.Caller{UserID: 1}, nil))

	require.NoError(t, err)
	assert.Equal(t, "You have left the team.", reply.Content)
	assert.Equal(t, []int64{2}, r.teams["Rockets"])

	require.Len(t, p.messages, 1)
	assert.Equal(t, dto.RoleRevoke, p.messages[0].Op)
	assert.Equal(t, "Rockets", p.messages[0].RoleName)
}

func TestLeaveTeamKeepsEmptyTeam(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}

	_, err := svc.leaveTeam(context.Background(), commandInteraction("leave_team", dto.Caller{UserID: 1}, nil))

	require.NoError(t, err)
	// The emptied team row stays behind.
	members, ok := r.teams["Rockets"]
	require.True(t, ok)
	assert.Empty(t, members)
}

func TestLeaveTeamRejectsNonMember(t *testing.T) {
	svc, _, p := newTestService(t)

	reply, err := svc.leaveTeam(context.Background(), commandInteraction("leave_team", dto.Caller{UserID: 1}, nil))

	require.NoError(t, err)
	assert.Equal(t, "You are not in a team.", reply.Content)
	assert.Empty(t, p.messages)
}
