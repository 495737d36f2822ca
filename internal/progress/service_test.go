package progress

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/XPEngine_Go/internal/config"
	"github.com/osse101/XPEngine_Go/internal/domain"
	"github.com/osse101/XPEngine_Go/internal/event"
	"github.com/osse101/XPEngine_Go/internal/leveling"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockRepository, pub *recordingPublisher) *service {
	var p Publisher
	if pub != nil {
		p = pub
	}
	return NewService(repo, p, Options{
		Clock:           func() time.Time { return fixedNow },
		LeaderboardSize: 3,
	}).(*service)
}

func TestAwardXP_LevelUpAndMilestone(t *testing.T) {
	repo := new(MockRepository)
	pub := &recordingPublisher{}
	svc := newTestService(repo, pub)
	ctx := context.Background()

	// 500 XP is level 9, 600 passes cumulative(10) = 564
	repo.On("ApplyXPEvent", ctx, mock.MatchedBy(func(e *domain.XPEvent) bool {
		return e.UserID == "alice" && e.Amount == 100 && e.Source == domain.SourceTestCompleted && e.RecordedAt.Equal(fixedNow)
	}), "").Return(int64(500), int64(600), nil).Once()

	result, err := svc.AwardXP(ctx, "alice", domain.SourceTestCompleted, 100, domain.XPMetadata{TestID: "t-1", Score: 90})

	require.NoError(t, err)
	want := &domain.XPAwardResult{
		UserID:     "alice",
		Source:     domain.SourceTestCompleted,
		XPGained:   100,
		TotalXP:    600,
		OldLevel:   9,
		NewLevel:   10,
		LeveledUp:  true,
		Milestones: []domain.Milestone{{Level: 10, IsMilestone: true, Tier: leveling.TierMinor}},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("AwardXP() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []event.Type{event.XPAwarded, event.LevelUp, event.MilestoneReached}, pub.types())
	repo.AssertExpectations(t)
}

func TestAwardXP_NoLevelChangePublishesOnlyXPEvent(t *testing.T) {
	repo := new(MockRepository)
	pub := &recordingPublisher{}
	svc := newTestService(repo, pub)
	ctx := context.Background()

	repo.On("ApplyXPEvent", ctx, mock.Anything, "").Return(int64(0), int64(5), nil).Once()

	result, err := svc.AwardXP(ctx, "bob", domain.SourceLessonCompleted, 5, domain.XPMetadata{})

	require.NoError(t, err)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, 1, result.NewLevel)
	assert.Empty(t, result.Milestones)
	assert.Equal(t, []event.Type{event.XPAwarded}, pub.types())
}

func TestAwardXP_DefaultAmounts(t *testing.T) {
	tests := []struct {
		name     string
		source   domain.RewardSource
		metadata domain.XPMetadata
		want     int64
	}{
		{"lesson", domain.SourceLessonCompleted, domain.XPMetadata{}, config.DefaultRewardAmounts[domain.SourceLessonCompleted]},
		{"test", domain.SourceTestCompleted, domain.XPMetadata{}, config.DefaultRewardAmounts[domain.SourceTestCompleted]},
		{"streak day 3", domain.SourceStreakBonus, domain.XPMetadata{StreakDay: 3}, 15},
		{"weekly", domain.SourceWeeklyClaim, domain.XPMetadata{}, config.DefaultRewardAmounts[domain.SourceWeeklyClaim]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := newTestService(repo, nil)
			repo.On("ApplyXPEvent", mock.Anything, mock.MatchedBy(func(e *domain.XPEvent) bool {
				return e.Amount == tt.want
			}), mock.Anything).Return(int64(0), tt.want, nil).Once()

			result, err := svc.AwardXP(context.Background(), "u1", tt.source, 0, tt.metadata)

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.XPGained)
			repo.AssertExpectations(t)
		})
	}
}

func TestAwardXP_ClaimPeriods(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	repo.On("ApplyXPEvent", ctx, mock.Anything, "2026-10-19").Return(int64(0), int64(20), nil).Once()
	repo.On("ApplyXPEvent", ctx, mock.Anything, "2026-W43").Return(int64(20), int64(120), nil).Once()

	_, err := svc.AwardXP(ctx, "u1", domain.SourceDailyClaim, 0, domain.XPMetadata{})
	require.NoError(t, err)
	_, err = svc.AwardXP(ctx, "u1", domain.SourceWeeklyClaim, 0, domain.XPMetadata{})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestAwardXP_ClaimNotAvailable(t *testing.T) {
	repo := new(MockRepository)
	pub := &recordingPublisher{}
	svc := newTestService(repo, pub)

	repo.On("ApplyXPEvent", mock.Anything, mock.Anything, "2026-10-19").
		Return(int64(0), int64(0), domain.ErrClaimNotAvailable).Once()

	result, err := svc.AwardXP(context.Background(), "u1", domain.SourceDailyClaim, 0, domain.XPMetadata{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrClaimNotAvailable)
	assert.Empty(t, pub.types())
}

func TestAwardXP_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		source  domain.RewardSource
		amount  int64
		wantErr error
	}{
		{"empty user", "", domain.SourceLessonCompleted, 10, domain.ErrInvalidInput},
		{"padded user", " alice ", domain.SourceLessonCompleted, 10, domain.ErrInvalidInput},
		{"unknown source", "alice", domain.RewardSource("quiz"), 10, domain.ErrUnknownRewardSource},
		{"negative amount", "alice", domain.SourceLessonCompleted, -1, domain.ErrInvalidInput},
		{"huge amount", "alice", domain.SourceLessonCompleted, MaxAwardAmount + 1, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := newTestService(repo, nil)

			_, err := svc.AwardXP(context.Background(), tt.userID, tt.source, tt.amount, domain.XPMetadata{})

			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "ApplyXPEvent", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAwardXP_UserNotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	repo.On("ApplyXPEvent", mock.Anything, mock.Anything, "").Return(int64(0), int64(0), domain.ErrUserNotFound).Once()

	_, err := svc.AwardXP(context.Background(), "ghost", domain.SourceLessonCompleted, 5, domain.XPMetadata{})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAwardXP_UserNotFoundDropsCachedTotal(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	repo.On("GetUserProgress", ctx, "gone").
		Return(&domain.UserProgress{UserID: "gone", TotalXP: 40, UpdatedAt: fixedNow}, nil).Once()
	_, err := svc.GetProgress(ctx, "gone")
	require.NoError(t, err)
	require.Equal(t, 1, svc.cache.Len())

	repo.On("ApplyXPEvent", ctx, mock.Anything, "").Return(int64(0), int64(0), domain.ErrUserNotFound).Once()
	_, err = svc.AwardXP(ctx, "gone", domain.SourceLessonCompleted, 5, domain.XPMetadata{})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, 0, svc.cache.Len())

	// next read goes back to the store instead of serving the stale total
	repo.On("GetUserProgress", ctx, "gone").Return(nil, domain.ErrUserNotFound).Once()
	_, err = svc.GetProgress(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	repo.AssertNumberOfCalls(t, "GetUserProgress", 2)
}

func TestAwardXP_EventIDsSortByCreation(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	var ids []uuid.UUID
	repo.On("ApplyXPEvent", ctx, mock.Anything, "").
		Run(func(args mock.Arguments) {
			ids = append(ids, args.Get(1).(*domain.XPEvent).ID)
		}).
		Return(int64(0), int64(5), nil).Twice()

	for range 2 {
		_, err := svc.AwardXP(ctx, "ida", domain.SourceLessonCompleted, 5, domain.XPMetadata{})
		require.NoError(t, err)
	}

	require.Len(t, ids, 2)
	assert.Equal(t, uuid.Version(7), ids[0].Version())
	assert.Negative(t, bytes.Compare(ids[0][:], ids[1][:]), "later event sorts after earlier one")
}

func TestAwardXP_CapIsFlaggedNotFailed(t *testing.T) {
	repo := new(MockRepository)
	pub := &recordingPublisher{}
	curve, err := leveling.NewCurve(5)
	require.NoError(t, err)
	svc := NewService(repo, pub, Options{Curve: curve, Clock: func() time.Time { return fixedNow }}).(*service)

	// cumulative(6) = 172 marks the end of level 5
	repo.On("ApplyXPEvent", mock.Anything, mock.Anything, "").Return(int64(100), int64(500), nil).Once()

	result, err := svc.AwardXP(context.Background(), "u1", domain.SourceLessonCompleted, 400, domain.XPMetadata{})

	require.NoError(t, err)
	assert.True(t, result.Capped)
	assert.Equal(t, 4, result.OldLevel)
	assert.Equal(t, 5, result.NewLevel)
	assert.Equal(t, []event.Type{event.XPAwarded, event.LevelUp}, pub.types())
}

func TestGetProgress_UsesCacheAfterFirstRead(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	repo.On("GetUserProgress", ctx, "alice").
		Return(&domain.UserProgress{UserID: "alice", TotalXP: 112, UpdatedAt: fixedNow}, nil).Once()

	first, err := svc.GetProgress(ctx, "alice")
	require.NoError(t, err)
	second, err := svc.GetProgress(ctx, "alice")
	require.NoError(t, err)

	want := &domain.ProgressView{
		UserID: "alice",
		Snapshot: domain.Snapshot{
			TotalXP:                112,
			CurrentLevel:           5,
			XPIntoCurrentLevel:     0,
			XPRequiredForNextLevel: 60,
			ProgressPercentage:     0,
		},
		Milestone:     domain.Milestone{Level: 5},
		XPToNextLevel: 60,
		UpdatedAt:     fixedNow,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("GetProgress() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "GetUserProgress", 1)
}

func TestGetProgress_ReflectsAward(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	repo.On("ApplyXPEvent", ctx, mock.Anything, "").Return(int64(0), int64(32), nil).Once()

	_, err := svc.AwardXP(ctx, "bob", domain.SourceLessonCompleted, 32, domain.XPMetadata{})
	require.NoError(t, err)

	view, err := svc.GetProgress(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, view.Snapshot.CurrentLevel)
	repo.AssertNotCalled(t, "GetUserProgress", mock.Anything, mock.Anything)
}

func TestGetProgress_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	repo.On("GetUserProgress", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound).Once()

	_, err := svc.GetProgress(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestEnsureUser(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	repo.On("CreateUserProgress", ctx, "carol").
		Return(&domain.UserProgress{UserID: "carol", CreatedAt: fixedNow, UpdatedAt: fixedNow}, nil).Once()

	view, err := svc.EnsureUser(ctx, "carol")

	require.NoError(t, err)
	assert.Equal(t, 1, view.Snapshot.CurrentLevel)
	assert.Equal(t, int64(10), view.Snapshot.XPRequiredForNextLevel)
}

func TestGetHistory(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	repo.On("GetUserProgress", ctx, "dave").Return(&domain.UserProgress{UserID: "dave"}, nil).Once()
	repo.On("GetRecentEvents", ctx, "dave", DefaultHistoryLimit).Return(nil, nil).Once()

	events, err := svc.GetHistory(ctx, "dave", 0)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)

	_, err = svc.GetHistory(ctx, "dave", MaxHistoryLimit+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLeaderboard_RefreshAndLimit(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	repo.On("GetTopUsers", ctx, 3).Return([]domain.UserProgress{
		{UserID: "a", TotalXP: 5000},
		{UserID: "b", TotalXP: 172},
		{UserID: "c", TotalXP: 9},
	}, nil).Once()

	board, err := svc.GetLeaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, domain.LeaderboardEntry{Rank: 1, UserID: "a", TotalXP: 5000, Level: 25}, board[0])
	assert.Equal(t, domain.LeaderboardEntry{Rank: 2, UserID: "b", TotalXP: 172, Level: 6}, board[1])

	// served from the cached snapshot
	full, err := svc.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, full, 3)
	assert.Equal(t, 1, full[2].Level)
	repo.AssertNumberOfCalls(t, "GetTopUsers", 1)

	_, err = svc.GetLeaderboard(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLeaderboard_RefreshError(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	repo.On("GetTopUsers", mock.Anything, 3).Return(nil, errors.New("db down")).Once()

	_, err := svc.GetLeaderboard(context.Background(), 1)
	assert.Error(t, err)
}

func TestPruneClaims(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	cutoff := fixedNow.AddDate(0, 0, -15)

	repo.On("PruneClaims", mock.Anything, cutoff).Return(int64(4), nil).Once()

	removed, err := svc.PruneClaims(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
}

func TestShutdown(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(new(MockRepository), pub)

	require.NoError(t, svc.Shutdown(context.Background()))
	assert.True(t, pub.shutdown)

	failing := &recordingPublisher{err: errors.New("timeout")}
	svc = newTestService(new(MockRepository), failing)
	assert.Error(t, svc.Shutdown(context.Background()))
}

func TestClaimPeriod(t *testing.T) {
	tests := []struct {
		name   string
		source domain.RewardSource
		at     time.Time
		want   string
	}{
		{"daily", domain.SourceDailyClaim, fixedNow, "2026-10-19"},
		{"daily uses UTC", domain.SourceDailyClaim, time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600)), "2026-10-20"},
		{"weekly", domain.SourceWeeklyClaim, fixedNow, "2026-W43"},
		{"weekly across new year", domain.SourceWeeklyClaim, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W53"},
		{"unlimited source", domain.SourceLessonCompleted, fixedNow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClaimPeriod(tt.source, tt.at))
		})
	}
}
