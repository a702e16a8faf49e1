package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/roster"
)

func Test_adjustRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     adjustRequest
		wantErr bool
	}{
		{name: "gain", req: adjustRequest{Delta: 10}, wantErr: false},
		{name: "loss", req: adjustRequest{Delta: -10}, wantErr: false},
		{name: "zero", req: adjustRequest{}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.req.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_setRequest_Validate(t *testing.T) {
	zero := 0
	tests := []struct {
		name    string
		req     setRequest
		wantErr bool
	}{
		{name: "set", req: setRequest{Rating: &zero}, wantErr: false},
		{name: "missing", req: setRequest{}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.req.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_matchRequest_convertToDomainMatch(t *testing.T) {
	resolver, err := roster.New(roster.Config{"Night Owls": {"alice", "bob"}})
	require.NoError(t, err)

	m, err := matchRequest{
		WinnerTeam:   "night-owls",
		LoserTeam:    "pickup",
		LoserPlayers: []string{"@Carol", "dave"},
		WinnerMVP:    "Alice",
		LoserMVP:     "@carol",
		Outcome:      "2-1",
	}.convertToDomainMatch(resolver)
	require.NoError(t, err)
	assert.Equal(t, "Night Owls", m.WinnerTeam)
	assert.Equal(t, []string{"alice", "bob"}, m.WinnerPlayers)
	assert.Equal(t, []string{"carol", "dave"}, m.LoserPlayers)
	assert.Equal(t, "alice", m.WinnerMVP)
	assert.Equal(t, "carol", m.LoserMVP)
	assert.Equal(t, domain.Outcome21, m.Outcome)

	_, err = matchRequest{WinnerTeam: "eagles", LoserTeam: "pickup"}.convertToDomainMatch(resolver)
	assert.ErrorIs(t, err, roster.ErrUnknownGroup)
}
