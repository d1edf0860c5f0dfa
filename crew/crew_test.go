/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package crew

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Comcast/parley/core"
	"github.com/Comcast/parley/dispatch"
	"github.com/Comcast/parley/fallback"
	"github.com/Comcast/parley/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testStore() *core.Store {
	return core.NewStore(
		core.NewCategory("HELLO", "Hi there!", "", ""),
		core.NewCategory("MY NAME IS *", `<think><set name="name"><star/></set></think>Hi <get name="name"/>.`, "", ""),
		core.NewCategory("WHO AM I", `You are <get name="name"/>.`, "", ""),
		core.NewCategory("CREATE * USERS", `<action workflow="create_users" inputs='{"count": "<star/>"}'/>OK`, "", ""))
}

type clock struct {
	sync.Mutex
	t time.Time
}

func (c *clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.Lock()
	c.t = c.t.Add(d)
	c.Unlock()
}

func TestCrewConversations(t *testing.T) {
	ctx := context.Background()
	c := NewCrew("test", testStore(), nil)

	r, err := c.Respond(ctx, "alice", "my name is Alice")
	require.NoError(t, err)
	assert.Equal(t, "Hi Alice.", r.Text)

	r, err = c.Respond(ctx, "bob", "who am i")
	require.NoError(t, err)
	assert.Equal(t, "You are .", r.Text)

	r, err = c.Respond(ctx, "alice", "who am i")
	require.NoError(t, err)
	assert.Equal(t, "You are Alice.", r.Text)

	assert.Equal(t, []string{"alice", "bob"}, c.Ids())

	sessions := c.Copy()
	assert.Equal(t, "Alice", sessions["alice"].Get("name"))
	assert.Len(t, sessions["bob"].History, 1)

	conv := c.Open("")
	assert.NotEmpty(t, conv.Id)
	assert.Len(t, c.Ids(), 3)
}

func TestCrewConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewCrew("test", testStore(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := c.Respond(ctx, "shared", "hello")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	s, have := c.Get("shared")
	require.True(t, have)
	assert.Len(t, s.Bot.Session().History, 160)
}

func TestCrewStorage(t *testing.T) {
	var (
		ctx   = context.Background()
		store = storage.NewMemStorage()
		cfg   = &Config{Storage: store}
	)

	c := NewCrew("test", testStore(), cfg)
	require.NoError(t, c.Load(ctx))
	_, err := c.Respond(ctx, "alice", "my name is Alice")
	require.NoError(t, err)

	again := NewCrew("test", testStore(), cfg)
	require.NoError(t, again.Load(ctx))
	r, err := again.Respond(ctx, "alice", "who am i")
	require.NoError(t, err)
	assert.Equal(t, "You are Alice.", r.Text)

	require.NoError(t, again.Remove(ctx, "alice"))
	sss, err := store.GetCrew(ctx, "test")
	require.NoError(t, err)
	assert.Empty(t, sss)
}

func TestCrewDispatch(t *testing.T) {
	var (
		ctx = context.Background()
		rec = &dispatch.Recorder{}
		c   = NewCrew("test", testStore(), &Config{Dispatcher: rec})
	)
	_, err := c.Respond(ctx, "ops", "create 5 users")
	require.NoError(t, err)
	require.Len(t, rec.Requests(), 1)
	assert.Equal(t, "ops", rec.Requests()[0].Conversation)
	assert.Equal(t, "5", rec.Requests()[0].Inputs["count"])
}

type failingStorage struct {
	storage.NoopStorage
}

func (s *failingStorage) WriteState(ctx context.Context, crew string, ss []*storage.SessionState) error {
	return errors.New("disk full")
}

func TestCrewWriteError(t *testing.T) {
	c := NewCrew("test", testStore(), &Config{Storage: &failingStorage{}})
	r, err := c.Respond(context.Background(), "a", "hello")
	assert.Error(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "Hi there!", r.Text)
}

func TestEvict(t *testing.T) {
	var (
		ctx = context.Background()
		clk = &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		c   = NewCrew("test", testStore(), nil)
	)
	c.Now = clk.Now

	_, err := c.Respond(ctx, "old", "hello")
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = c.Respond(ctx, "new", "hello")
	require.NoError(t, err)
	clk.Advance(time.Minute)

	assert.Equal(t, []string{"old"}, c.Idle(30*time.Minute))

	evicted, err := c.Evict(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, evicted)
	assert.Equal(t, []string{"new"}, c.Ids())

	evicted, err = c.Evict(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, evicted)
}

// blockingFallback holds a Respond in progress until released.
func blockingFallback() (fallback.Func, chan struct{}, chan struct{}) {
	started, release := make(chan struct{}), make(chan struct{})
	f := fallback.Func(func(ctx context.Context, input string, s *core.Session) *core.Result {
		close(started)
		<-release
		return core.TextResult("Eh?")
	})
	return f, started, release
}

func TestRemoveDuringRespond(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStorage()
	f, started, release := blockingFallback()
	c := NewCrew("test", testStore(), &Config{Storage: store, Fallback: f})

	responded := make(chan error)
	go func() {
		_, err := c.Respond(ctx, "a", "gibberish")
		responded <- err
	}()
	<-started

	removed := make(chan error)
	go func() {
		removed <- c.Remove(ctx, "a")
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, <-responded)
	require.NoError(t, <-removed)

	assert.Empty(t, c.Ids())
	sss, err := store.GetCrew(ctx, "test")
	require.NoError(t, err)
	assert.Empty(t, sss)

	// The id can be used again.
	r, err := c.Respond(ctx, "a", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", r.Text)
	assert.Equal(t, []string{"a"}, c.Ids())
}

func TestEvictKeepsTouched(t *testing.T) {
	var (
		ctx = context.Background()
		clk = &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		c   = NewCrew("test", testStore(), nil)
	)
	c.Now = clk.Now

	_, err := c.Respond(ctx, "a", "hello")
	require.NoError(t, err)
	clk.Advance(time.Hour)
	ids := c.Idle(30 * time.Minute)
	assert.Equal(t, []string{"a"}, ids)

	// Activity after Idle looked.
	_, err = c.Respond(ctx, "a", "hello")
	require.NoError(t, err)

	removed, err := c.remove(ctx, ids, clk.Now().Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.Equal(t, []string{"a"}, c.Ids())
}

func TestReaper(t *testing.T) {
	_, err := NewReaper(NewCrew("test", testStore(), nil), "not a schedule", time.Minute)
	assert.Error(t, err)

	c := NewCrew("test", testStore(), nil)
	r, err := NewReaper(c, "*/5 * * * *", time.Minute)
	require.NoError(t, err)
	next := r.Next(time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC), next)
}

func TestReaperRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := NewCrew("test", testStore(), nil)
	_, err := c.Respond(ctx, "a", "hello")
	require.NoError(t, err)

	// Every second.
	r, err := NewReaper(c, "* * * * * * *", 0)
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		done <- r.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(c.Ids()) == 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
