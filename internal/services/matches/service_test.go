package matches

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/events"
	"github.com/fastprodman/golfwager/internal/infra/pgtestutil"
	"github.com/fastprodman/golfwager/internal/services/ledger"
)

const thousand domain.Money = 100_000

var (
	eighteen = []int{4, 4, 3, 5, 4, 4, 3, 5, 4, 4, 4, 3, 5, 4, 4, 3, 5, 4}
	nine     = []int{4, 3, 5, 4, 4, 3, 5, 4, 4}
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type captured struct {
	mu  sync.Mutex
	evs []events.Event
}

func (c *captured) Publish(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evs = append(c.evs, e)

	return nil
}

func (c *captured) types() []events.Type {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]events.Type, 0, len(c.evs))
	for _, e := range c.evs {
		out = append(out, e.Type)
	}

	return out
}

type fixture struct {
	db     *sql.DB
	svc    *Service
	ledger *ledger.Ledger
	clock  *clock
	events *captured
}

func newFixture(t *testing.T, balances map[string]domain.Money) *fixture {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	for id, bal := range balances {
		_, err := db.Exec(`INSERT INTO users (id, display_name, balance) VALUES ($1, $1, $2)`, id, bal)
		require.NoError(t, err, "seed user %s", id)
	}

	f := &fixture{
		db:     db,
		ledger: ledger.New(db),
		clock:  &clock{now: time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)},
		events: &captured{},
	}
	f.svc = New(db, f.ledger, WithClock(f.clock.Now), WithPublisher(f.events))

	return f
}

func (f *fixture) balance(t *testing.T, id string) domain.Money {
	t.Helper()

	b, err := f.ledger.GetBalance(t.Context(), id)
	require.NoError(t, err)

	return b
}

func (f *fixture) create(t *testing.T, creator string, gt domain.GameType, format domain.Format, pars []int, wager domain.Money) *domain.Match {
	t.Helper()

	m, err := f.svc.Create(t.Context(), CreateParams{
		CreatorID:  creator,
		GameType:   gt,
		Format:     format,
		CourseName: "Pine Valley",
		Pars:       pars,
		Wager:      wager,
	})
	require.NoError(t, err)

	return m
}

// play submits and confirms one hole for every participant in seat order and
// returns the result of the last confirmation.
func (f *fixture) play(t *testing.T, matchID string, hole int, strokes map[string]int, seats []string) ConfirmResult {
	t.Helper()

	ctx := t.Context()

	for _, p := range seats {
		require.NoError(t, f.svc.SubmitScore(ctx, matchID, p, hole, strokes[p]), "submit hole %d for %s", hole, p)
	}

	var res ConfirmResult

	for _, p := range seats {
		var err error

		res, err = f.svc.ConfirmScore(ctx, matchID, p, hole)
		require.NoError(t, err, "confirm hole %d for %s", hole, p)
	}

	return res
}

func TestScenario_CreateAndJoinDebitsBoth(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"alice": thousand, "bob": thousand})

	m := f.create(t, "alice", domain.StrokePlay, domain.OneVOne, eighteen, 5000)
	assert.Equal(t, domain.StatusWaiting, m.Status)
	assert.Equal(t, domain.Money(95_000), f.balance(t, "alice"))

	joined, err := f.svc.Join(t.Context(), m.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, joined.Status)
	assert.Equal(t, []string{"alice", "bob"}, joined.Participants)

	assert.Equal(t, domain.Money(95_000), f.balance(t, "alice"))
	assert.Equal(t, domain.Money(95_000), f.balance(t, "bob"))

	assert.Equal(t, []events.Type{
		events.MatchCreated, events.MatchJoined, events.MatchStarted,
	}, f.events.types())
}

func TestScenario_StrokePlayWinnerTakesAll(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"alice": thousand, "bob": thousand})

	m := f.create(t, "alice", domain.StrokePlay, domain.OneVOne, eighteen, 5000)
	_, err := f.svc.Join(t.Context(), m.ID, "bob")
	require.NoError(t, err)

	seats := []string{"alice", "bob"}

	var res ConfirmResult

	for hole := 1; hole <= 18; hole++ {
		// alice: 18 x 4 = 72; bob: 4s plus one extra stroke on holes 1-3 = 75.
		bob := 4
		if hole <= 3 {
			bob = 5
		}

		res = f.play(t, m.ID, hole, map[string]int{"alice": 4, "bob": bob}, seats)

		if hole < 18 {
			assert.False(t, res.Completed, "hole %d", hole)
			assert.Equal(t, hole+1, res.CurrentHole)
		}
	}

	assert.True(t, res.HoleCompleted)
	assert.False(t, res.Advanced, "the pointer stays on the last hole")
	assert.True(t, res.Completed)
	assert.Equal(t, "alice", res.WinnerID)
	assert.Equal(t, 18, res.CurrentHole)

	assert.Equal(t, domain.Money(105_000), f.balance(t, "alice"))
	assert.Equal(t, domain.Money(95_000), f.balance(t, "bob"))

	got, err := f.svc.Get(t.Context(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.True(t, got.PrizeDistributed)
	require.NotNil(t, got.CompletedAt)

	history, err := f.ledger.History(t.Context(), "bob", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.TxMatchLoss, history[0].Type)
	assert.Equal(t, domain.Money(-5000), history[0].Amount)
	assert.Equal(t, domain.TxWager, history[1].Type)

	// A late duplicate confirmation changes nothing and pays nothing.
	again, err := f.svc.ConfirmScore(t.Context(), m.ID, "bob", 18)
	require.NoError(t, err)
	assert.True(t, again.Completed)
	assert.False(t, again.HoleCompleted)
	assert.False(t, again.Advanced)
	assert.Equal(t, domain.Money(105_000), f.balance(t, "alice"))

	// Scores are frozen once the match is over.
	err = f.svc.SubmitScore(t.Context(), m.ID, "bob", 18, 3)
	require.ErrorIs(t, err, ErrMatchNotInProgress)
}

func TestScenario_SkinsCarryOver(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"a": thousand, "b": thousand})

	m := f.create(t, "a", domain.Skins, domain.OneVOne, nine, 1000)
	_, err := f.svc.Join(t.Context(), m.ID, "b")
	require.NoError(t, err)

	seats := []string{"a", "b"}
	f.play(t, m.ID, 1, map[string]int{"a": 4, "b": 4}, seats)
	f.play(t, m.ID, 2, map[string]int{"a": 3, "b": 5}, seats)

	var res ConfirmResult
	for hole := 3; hole <= 9; hole++ {
		res = f.play(t, m.ID, hole, map[string]int{"a": 5, "b": 5}, seats)
	}

	require.True(t, res.Completed)
	assert.Equal(t, "a", res.WinnerID)

	// Pot 2000 over 9 holes: two holes worth 223, seven worth 222. a wins hole 2
	// with hole 1 carried (446); the 1554 left after hole 9 is split 777/777.
	assert.Equal(t, domain.Money(99_000+446+777), f.balance(t, "a"))
	assert.Equal(t, domain.Money(99_000+777), f.balance(t, "b"))
	assert.Equal(t, 2*thousand, f.balance(t, "a")+f.balance(t, "b"), "money is conserved")
}

func TestScenario_JoinFullMatchLeavesBalances(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"a": thousand, "b": thousand, "c": thousand})

	m := f.create(t, "a", domain.StrokePlay, domain.OneVOne, eighteen, 5000)
	_, err := f.svc.Join(t.Context(), m.ID, "b")
	require.NoError(t, err)

	_, err = f.svc.Join(t.Context(), m.ID, "c")
	require.ErrorIs(t, err, ErrMatchFull)

	assert.Equal(t, thousand, f.balance(t, "c"))
	assert.Equal(t, domain.Money(95_000), f.balance(t, "a"))
	assert.Equal(t, domain.Money(95_000), f.balance(t, "b"))
}

func TestScenario_InvalidHole(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"a": thousand, "b": thousand})

	m := f.create(t, "a", domain.StrokePlay, domain.OneVOne, eighteen, 0)
	_, err := f.svc.Join(t.Context(), m.ID, "b")
	require.NoError(t, err)

	err = f.svc.SubmitScore(t.Context(), m.ID, "a", 19, 4)
	require.ErrorIs(t, err, ErrInvalidHole)

	err = f.svc.SubmitScore(t.Context(), m.ID, "a", 0, 4)
	require.ErrorIs(t, err, ErrInvalidHole)
}

func TestJoin_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"a": thousand, "b": thousand, "poor": 100})

	m := f.create(t, "a", domain.MatchPlay, domain.TwoVTwo, nine, 5000)

	_, err := f.svc.Join(t.Context(), m.ID, "a")
	require.ErrorIs(t, err, ErrAlreadyJoined)

	_, err = f.svc.Join(t.Context(), m.ID, "poor")
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, domain.Money(100), f.balance(t, "poor"))

	_, err = f.svc.Join(t.Context(), m.ID, "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.Join(t.Context(), "00000000-0000-0000-0000-000000000000", "b")
	require.ErrorIs(t, err, ErrMatchNotFound)

	f.clock.Advance(DefaultTTL)

	_, err = f.svc.Join(t.Context(), m.ID, "b")
	require.ErrorIs(t, err, ErrNotJoinable)
	assert.Equal(t, thousand, f.balance(t, "b"))
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"a": 1000})

	tests := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{
			name:    "unknown_game_type",
			params:  CreateParams{CreatorID: "a", GameType: "bingo", Format: domain.OneVOne, CourseName: "X", Pars: nine},
			wantErr: ErrInvalidGameType,
		},
		{
			name:    "unknown_format",
			params:  CreateParams{CreatorID: "a", GameType: domain.Skins, Format: "3v3", CourseName: "X", Pars: nine},
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "bad_par",
			params:  CreateParams{CreatorID: "a", GameType: domain.Skins, Format: domain.OneVOne, CourseName: "X", Pars: []int{4, 3, 5, 4, 7, 3, 5, 4, 4}},
			wantErr: ErrInvalidCourse,
		},
		{
			name:    "negative_wager",
			params:  CreateParams{CreatorID: "a", GameType: domain.Skins, Format: domain.OneVOne, CourseName: "X", Pars: nine, Wager: -1},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "wager_above_balance",
			params:  CreateParams{CreatorID: "a", GameType: domain.Skins, Format: domain.OneVOne, CourseName: "X", Pars: nine, Wager: 1001},
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "unknown_creator",
			params:  CreateParams{CreatorID: "ghost", GameType: domain.Skins, Format: domain.OneVOne, CourseName: "X", Pars: nine},
			wantErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(t.Context(), tt.params)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, domain.Money(1000), f.balance(t, "a"))

	list, err := f.svc.ListForUser(t.Context(), "a", 10)
	require.NoError(t, err)
	assert.Empty(t, list, "failed creates leave no match behind")
}

func TestScores_SubmitAndConfirmRules(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"a": thousand, "b": thousand, "c": thousand})

	m := f.create(t, "a", domain.MatchPlay, domain.OneVOne, nine, 0)
	ctx := t.Context()

	err := f.svc.SubmitScore(ctx, m.ID, "a", 1, 4)
	require.ErrorIs(t, err, ErrMatchNotInProgress)

	_, err = f.svc.Join(ctx, m.ID, "b")
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.SubmitScore(ctx, m.ID, "c", 1, 4), ErrNotParticipant)
	require.ErrorIs(t, f.svc.SubmitScore(ctx, m.ID, "a", 1, 0), ErrInvalidStrokes)
	require.ErrorIs(t, f.svc.SubmitScore(ctx, m.ID, "a", 1, 21), ErrInvalidStrokes)

	_, err = f.svc.ConfirmScore(ctx, m.ID, "a", 1)
	require.ErrorIs(t, err, ErrScoreMissing)

	require.NoError(t, f.svc.SubmitScore(ctx, m.ID, "a", 1, 5))
	require.NoError(t, f.svc.SubmitScore(ctx, m.ID, "a", 1, 4), "correction before confirming")

	res, err := f.svc.ConfirmScore(ctx, m.ID, "a", 1)
	require.NoError(t, err)
	assert.False(t, res.HoleCompleted)
	assert.False(t, res.Advanced)
	assert.Equal(t, 1, res.CurrentHole)

	require.ErrorIs(t, f.svc.SubmitScore(ctx, m.ID, "a", 1, 3), ErrScoreConfirmed)

	// Holes may be scored ahead; the pointer only moves past completed holes.
	res = f.play(t, m.ID, 2, map[string]int{"a": 3, "b": 4}, []string{"a", "b"})
	assert.True(t, res.HoleCompleted)
	assert.False(t, res.Advanced, "hole 1 is still open")
	assert.Equal(t, 1, res.CurrentHole)

	got, err := f.svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentHole)
	assert.True(t, got.Holes[1].Completed)

	require.NoError(t, f.svc.SubmitScore(ctx, m.ID, "b", 1, 4))
	res, err = f.svc.ConfirmScore(ctx, m.ID, "b", 1)
	require.NoError(t, err)
	assert.True(t, res.HoleCompleted)
	assert.True(t, res.Advanced)
	assert.Equal(t, 3, res.CurrentHole)

	require.ErrorIs(t, f.svc.SubmitScore(ctx, m.ID, "b", 2, 2), ErrHoleCompleted)

	standings, err := f.svc.Standings(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, "a", standings[0].UserID)
	assert.Equal(t, 1, standings[0].HolesWon)
}

// Every participant confirms the final hole at once: exactly one payout.
func TestConfirm_ConcurrentFinalConfirmationsPayOnce(t *testing.T) {
	t.Parallel()

	players := []string{"p1", "p2", "p3", "p4"}
	balances := map[string]domain.Money{}

	for _, p := range players {
		balances[p] = thousand
	}

	f := newFixture(t, balances)

	m := f.create(t, "p1", domain.StrokePlay, domain.TwoVTwo, nine, 2500)
	for _, p := range players[1:] {
		_, err := f.svc.Join(t.Context(), m.ID, p)
		require.NoError(t, err)
	}

	strokes := map[string]int{"p1": 5, "p2": 4, "p3": 6, "p4": 5}
	for hole := 1; hole <= 8; hole++ {
		f.play(t, m.ID, hole, strokes, players)
	}

	for _, p := range players {
		require.NoError(t, f.svc.SubmitScore(t.Context(), m.ID, p, 9, strokes[p]))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)

	for range 2 {
		for _, p := range players {
			wg.Add(1)

			go func() {
				defer wg.Done()

				res, err := f.svc.ConfirmScore(context.Background(), m.ID, p, 9)
				if !assert.NoError(t, err) {
					return
				}

				mu.Lock()
				defer mu.Unlock()

				if res.HoleCompleted && res.Completed {
					completed++
				}
			}()
		}
	}

	wg.Wait()

	assert.Equal(t, 1, completed, "exactly one confirmation completes the match")
	assert.Equal(t, domain.Money(97_500+10_000), f.balance(t, "p2"))

	var total domain.Money
	for _, p := range players {
		total += f.balance(t, p)
	}

	assert.Equal(t, 4*thousand, total)
}

// Four users race for the last two seats of a 2v1.
func TestJoin_ConcurrentJoinsRespectBalanceAndSeats(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{
		"host": thousand, "x": 5000, "y": 5000, "z": 5000, "w": 5000,
	})

	m := f.create(t, "host", domain.Skins, domain.TwoVOne, nine, 5000)

	var wg sync.WaitGroup

	results := make(chan error, 4)

	for _, p := range []string{"x", "y", "z", "w"} {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.svc.Join(context.Background(), m.ID, p)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var ok, full int

	for err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrMatchFull):
			full++
		}
	}

	assert.Equal(t, 2, ok)
	assert.Equal(t, 2, full)

	got, err := f.svc.Get(t.Context(), m.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 3)
	assert.Equal(t, domain.StatusInProgress, got.Status)

	var spent int
	for _, p := range []string{"x", "y", "z", "w"} {
		if f.balance(t, p) == 0 {
			spent++
		}
	}

	assert.Equal(t, 2, spent, "only seated players paid")
}

// One user races into two different wagered matches.
func TestJoin_SameUserTwoMatchesConcurrently(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		balance     domain.Money
		wantOK      int
		wantBalance domain.Money
	}{
		{name: "covers_both", balance: 10_000, wantOK: 2, wantBalance: 0},
		{name: "covers_one", balance: 7_500, wantOK: 1, wantBalance: 2_500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, map[string]domain.Money{"h1": thousand, "h2": thousand, "u": tt.balance})

			ids := []string{
				f.create(t, "h1", domain.StrokePlay, domain.OneVOne, nine, 5000).ID,
				f.create(t, "h2", domain.Skins, domain.OneVOne, nine, 5000).ID,
			}

			var wg sync.WaitGroup

			results := make(chan error, len(ids))

			for _, id := range ids {
				wg.Add(1)

				go func() {
					defer wg.Done()

					_, err := f.svc.Join(context.Background(), id, "u")
					results <- err
				}()
			}

			wg.Wait()
			close(results)

			var ok int

			for err := range results {
				if err == nil {
					ok++
					continue
				}

				assert.ErrorIs(t, err, ErrInsufficientFunds)
			}

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantBalance, f.balance(t, "u"))
		})
	}
}

// One user creates two wagered matches at once with funds for only one.
func TestCreate_SameUserConcurrently(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"u": 6_000})

	var wg sync.WaitGroup

	results := make(chan error, 2)

	for range 2 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.svc.Create(context.Background(), CreateParams{
				CreatorID:  "u",
				GameType:   domain.StrokePlay,
				Format:     domain.OneVOne,
				CourseName: "Pine Valley",
				Pars:       nine,
				Wager:      5000,
			})
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var ok int

	for err := range results {
		if err == nil {
			ok++
			continue
		}

		assert.ErrorIs(t, err, ErrInsufficientFunds)
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, domain.Money(1_000), f.balance(t, "u"))

	own, err := f.svc.ListForUser(t.Context(), "u", 0)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestSolo_StartsImmediatelyAndReturnsStake(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"solo": thousand})

	m := f.create(t, "solo", domain.StrokePlay, domain.Solo, nine, 1000)
	assert.Equal(t, domain.StatusInProgress, m.Status)

	for hole := 1; hole <= 9; hole++ {
		f.play(t, m.ID, hole, map[string]int{"solo": 4}, []string{"solo"})
	}

	got, err := f.svc.Get(t.Context(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, "solo", got.WinnerID)
	assert.Equal(t, thousand, f.balance(t, "solo"))
}

func TestExpireStale_RefundsOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]domain.Money{"a": thousand, "b": thousand, "c": thousand})

	stale := f.create(t, "a", domain.StrokePlay, domain.TwoVOne, nine, 2000)
	_, err := f.svc.Join(t.Context(), stale.ID, "b")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	fresh := f.create(t, "c", domain.StrokePlay, domain.OneVOne, nine, 2000)

	n, err := f.svc.ExpireStale(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f.clock.Advance(DefaultTTL - time.Hour)

	n, err = f.svc.ExpireStale(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.svc.Get(t.Context(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)
	assert.True(t, got.PrizeDistributed)

	assert.Equal(t, thousand, f.balance(t, "a"))
	assert.Equal(t, thousand, f.balance(t, "b"))
	assert.Equal(t, domain.Money(98_000), f.balance(t, "c"))

	n, err = f.svc.ExpireStale(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, thousand, f.balance(t, "a"))

	list, err := f.svc.ListJoinable(t.Context(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fresh.ID, list[0].ID)

	_, err = f.svc.ListJoinable(t.Context(), ListFilter{Format: "9v9"})
	require.ErrorIs(t, err, ErrInvalidFormat)

	assert.Contains(t, f.events.types(), events.MatchExpired)
}
