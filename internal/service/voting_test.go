package service

import (
	"context"
	"testing"

	"hackbot/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voteOptions(team, rating string) map[string]string {
	return map[string]string{"team_role": team, "rating": rating}
}

func TestVote(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}
	r.teams["Comets"] = []int64{2}

	reply, err := svc.vote(context.Background(), commandInteraction("vote", dto.Caller{UserID: 1}, voteOptions("Comets", "4")))

	require.NoError(t, err)
	assert.Equal(t, "Vote submitted", reply.Content)
	assert.Equal(t, 4, r.votes[voteKey{user: 1, team: "Comets"}])
}

func TestVoteRequiresTeam(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Comets"] = []int64{2}

	reply, err := svc.vote(context.Background(), commandInteraction("vote", dto.Caller{UserID: 1}, voteOptions("Comets", "4")))

	require.NoError(t, err)
	assert.Equal(t, "You need to be in a team to vote!", reply.Content)
	assert.Empty(t, r.votes)
}

func TestVoteLastWriteWins(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}
	r.teams["Comets"] = []int64{2}

	_, err := svc.vote(context.Background(), commandInteraction("vote", dto.Caller{UserID: 1}, voteOptions("Comets", "2")))
	require.NoError(t, err)
	_, err = svc.vote(context.Background(), commandInteraction("vote", dto.Caller{UserID: 1}, voteOptions("Comets", "5")))
	require.NoError(t, err)

	require.Len(t, r.votes, 1)
	assert.Equal(t, 5, r.votes[voteKey{user: 1, team: "Comets"}])
}

func TestVoteRejectsNonIntegerRating(t *testing.T) {
	svc, r, _ := newTestService(t)
	r.teams["Rockets"] = []int64{1}

	reply, err := svc.vote(context.Background(), commandInteraction("vote", dto.Caller{UserID: 1}, voteOptions("Comets", "great")))

	require.NoError(t, err)
	assert.Equal(t, "Rating must be an integer.", reply.Content)
	assert.Empty(t, r.votes)
}
