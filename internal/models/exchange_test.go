package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExchange() ExchangeRequest {
	return ExchangeRequest{
		ID:               "ex-1",
		FromUserID:       "u-alice",
		ToUserID:         "u-bob",
		OfferedSkillID:   "s-guitar",
		RequestedSkillID: "s-spanish",
		Status:           ExchangeStatusPending,
	}
}

func TestEnrichWithNestedSkills(t *testing.T) {
	e := sampleExchange()
	e.OfferedSkill = &Skill{ID: "s-guitar", Title: "Игра на гитаре"}
	e.RequestedSkill = &Skill{ID: "s-spanish", Title: "Испанский язык"}

	e.Enrich("u-alice")

	require.NotNil(t, e.FromUserSkill)
	assert.Equal(t, "Игра на гитаре", e.FromUserSkill.Title)
	require.NotNil(t, e.ToUserSkill)
	assert.Equal(t, "Испанский язык", e.ToUserSkill.Title)
	assert.True(t, e.IsFromCurrentUser)
	assert.False(t, e.IsToCurrentUser)
}

func TestEnrichWithoutNestedSkillsUsesPlaceholder(t *testing.T) {
	e := sampleExchange()

	e.Enrich("u-bob")

	require.NotNil(t, e.FromUserSkill)
	assert.Equal(t, "s-guitar", e.FromUserSkill.ID)
	assert.Equal(t, UnknownSkillTitle, e.FromUserSkill.Title)
	require.NotNil(t, e.ToUserSkill)
	assert.Equal(t, UnknownSkillTitle, e.ToUserSkill.Title)
	assert.False(t, e.IsFromCurrentUser)
	assert.True(t, e.IsToCurrentUser)
}

func TestEnrichNestedSkillWithEmptyTitle(t *testing.T) {
	e := sampleExchange()
	e.OfferedSkill = &Skill{ID: "s-guitar"}

	e.Enrich("u-alice")

	assert.Equal(t, UnknownSkillTitle, e.FromUserSkill.Title)
}

func TestEnrichAnonymousViewer(t *testing.T) {
	e := sampleExchange()

	e.Enrich("")

	assert.False(t, e.IsFromCurrentUser)
	assert.False(t, e.IsToCurrentUser)
}

func TestCounterpart(t *testing.T) {
	e := sampleExchange()

	assert.Equal(t, "u-bob", e.Counterpart("u-alice"))
	assert.Equal(t, "u-alice", e.Counterpart("u-bob"))
}

func TestInvolvesSkill(t *testing.T) {
	e := sampleExchange()

	assert.True(t, e.InvolvesSkill("s-guitar"))
	assert.True(t, e.InvolvesSkill("s-spanish"))
	assert.False(t, e.InvolvesSkill("s-chess"))
}
