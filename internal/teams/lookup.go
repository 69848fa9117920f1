// Package teams translates an owner reference, a user id or a team
// name, into a canonical team UUID via the team directory. Directory
// failures are non-fatal: lookups log them and report no team, so the
// caller skips the resource instead of aborting the run.
package teams

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"team-policy-sync/internal/monitoring"
)

// MembershipLister is the slice of the monitoring client ByUser uses.
type MembershipLister interface {
	GetUserMemberships(ctx context.Context, userID string) ([]monitoring.Team, error)
}

// TeamLister is the slice of the monitoring client ByName uses.
type TeamLister interface {
	ListTeams(ctx context.Context, keyword string) ([]monitoring.Team, error)
}

// ByUser resolves a team id from a user's team memberships.
type ByUser struct {
	directory MembershipLister
	logger    *zap.Logger
}

func NewByUser(directory MembershipLister, logger *zap.Logger) *ByUser {
	return &ByUser{directory: directory, logger: logger}
}

// TeamID returns the id of the user's first team membership in directory
// order, or "" when the user belongs to no team or the directory call
// fails.
func (b *ByUser) TeamID(ctx context.Context, userID string) (string, error) {
	memberships, err := b.directory.GetUserMemberships(ctx, userID)
	if err != nil {
		b.logger.Warn("failed to fetch team memberships",
			zap.String("user_id", userID), zap.Error(err))
		return "", nil
	}
	if len(memberships) == 0 {
		return "", nil
	}
	return memberships[0].ID, nil
}

// ByName resolves a team id from a keyword search on the team directory.
type ByName struct {
	directory TeamLister
	logger    *zap.Logger
}

func NewByName(directory TeamLister, logger *zap.Logger) *ByName {
	return &ByName{directory: directory, logger: logger}
}

// TeamID returns the id of the team matching name, or "" when no team
// matches or the directory call fails. Keyword search can return more
// than one team; an exact name or handle match wins over the first
// result.
func (b *ByName) TeamID(ctx context.Context, name string) (string, error) {
	teams, err := b.directory.ListTeams(ctx, name)
	if err != nil {
		b.logger.Warn("failed to search teams",
			zap.String("keyword", name), zap.Error(err))
		return "", nil
	}
	if len(teams) == 0 {
		return "", nil
	}
	for _, team := range teams {
		if strings.EqualFold(team.Name, name) || strings.EqualFold(team.Handle, name) {
			return team.ID, nil
		}
	}
	return teams[0].ID, nil
}
