package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher records calls and answers with the term itself. A gate
// registered for a term holds that call until the gate is closed; gated
// calls ignore ctx so late results can be observed.
type fakeFetcher struct {
	mu        sync.Mutex
	calls     []map[string]string
	gates     map[string]chan struct{}
	errs      map[string]error
	honorsCtx bool
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		gates: make(map[string]chan struct{}),
		errs:  make(map[string]error),
	}
}

func (f *fakeFetcher) gate(term string) chan struct{} {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[term] = ch
	f.mu.Unlock()
	return ch
}

func (f *fakeFetcher) Fetch(ctx context.Context, params map[string]string) ([]string, error) {
	term := params["term"]
	f.mu.Lock()
	f.calls = append(f.calls, params)
	gate := f.gates[term]
	err := f.errs[term]
	f.mu.Unlock()

	if gate != nil {
		if f.honorsCtx {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, Cancelled()
			}
		} else {
			<-gate
		}
	}
	if err != nil {
		return nil, err
	}
	return []string{"result:" + term}, nil
}

func (f *fakeFetcher) terms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c["term"])
	}
	return out
}

type delivery struct {
	query Query
	items []string
	err   error
}

type recorder struct {
	mu  sync.Mutex
	got []delivery
}

func (r *recorder) callbacks() Callbacks[string] {
	return Callbacks[string]{
		OnResults: func(q Query, items []string) {
			r.mu.Lock()
			r.got = append(r.got, delivery{query: q, items: items})
			r.mu.Unlock()
		},
		OnError: func(q Query, err error) {
			r.mu.Lock()
			r.got = append(r.got, delivery{query: q, err: err})
			r.mu.Unlock()
		},
	}
}

func (r *recorder) deliveries() []delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivery(nil), r.got...)
}

func newTestController(f *fakeFetcher, r *recorder) *Controller[string] {
	return New[string](f, nil, r.callbacks())
}

func TestController_EmptySubmitDeliversImmediately(t *testing.T) {
	f := newFakeFetcher()
	r := &recorder{}
	c := newTestController(f, r)
	defer c.Close()

	q := c.Submit("")

	got := r.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, q, got[0].query)
	assert.NotNil(t, got[0].items)
	assert.Empty(t, got[0].items)
	assert.NoError(t, got[0].err)
	assert.Empty(t, f.terms())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_BurstSendsOnlyLastQuery(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("a")
		time.Sleep(50 * time.Millisecond)
		c.Submit("ab")
		time.Sleep(50 * time.Millisecond)
		last := c.Submit("abc")
		time.Sleep(400 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{"abc"}, f.terms())
		got := r.deliveries()
		require.Len(t, got, 1)
		assert.Equal(t, last, got[0].query)
		assert.Equal(t, []string{"result:abc"}, got[0].items)
	})
}

func TestController_DebounceWindowResetsOnEachSubmit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("a")
		time.Sleep(299 * time.Millisecond)
		c.Submit("ab")
		time.Sleep(299 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, f.terms(), "no query may reach the network before the window elapses")

		time.Sleep(2 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"ab"}, f.terms())
	})
}

func TestController_LateResultOfSupersededSessionIsDiscarded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		gateX := f.gate("x")
		gateY := f.gate("y")
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("x")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()
		require.Equal(t, StateInFlight, c.State())

		qy := c.Submit("y")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()
		require.Equal(t, []string{"x", "y"}, f.terms())

		close(gateY)
		synctest.Wait()
		close(gateX)
		synctest.Wait()

		got := r.deliveries()
		require.Len(t, got, 1)
		assert.Equal(t, qy, got[0].query)
		assert.Equal(t, []string{"result:y"}, got[0].items)
		assert.Equal(t, StateIdle, c.State())
	})
}

func TestController_OlderSessionCompletingFirstIsDiscarded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		gateX := f.gate("x")
		gateY := f.gate("y")
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("x")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()
		qy := c.Submit("y")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()

		close(gateX)
		synctest.Wait()
		assert.Empty(t, r.deliveries())

		close(gateY)
		synctest.Wait()
		got := r.deliveries()
		require.Len(t, got, 1)
		assert.Equal(t, qy.Seq, got[0].query.Seq)
	})
}

func TestController_BadStatusDeliveredAsError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		f.errs["missing"] = BadStatus(404)
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("missing")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()

		got := r.deliveries()
		require.Len(t, got, 1)
		assert.Nil(t, got[0].items)
		require.Error(t, got[0].err)
		assert.ErrorIs(t, got[0].err, ErrBadStatus)
		assert.ErrorIs(t, got[0].err, BadStatus(404))

		var serr *Error
		require.ErrorAs(t, got[0].err, &serr)
		assert.Equal(t, 404, serr.Status)
	})
}

func TestController_CancelledErrorIsSwallowed(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		f.errs["gone"] = Cancelled()
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("gone")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()

		assert.Empty(t, r.deliveries())
		assert.Equal(t, StateIdle, c.State())
	})
}

func TestController_CancelDuringDelayPreventsFetch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("abc")
		assert.Equal(t, StateDelaying, c.State())
		time.Sleep(100 * time.Millisecond)
		c.Cancel()
		time.Sleep(time.Second)
		synctest.Wait()

		assert.Empty(t, f.terms())
		assert.Empty(t, r.deliveries())
		assert.Equal(t, StateIdle, c.State())
	})
}

func TestController_CancelInFlightSuppressesDelivery(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		f.honorsCtx = true
		f.gate("slow")
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("slow")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()
		require.Equal(t, StateInFlight, c.State())

		c.Cancel()
		synctest.Wait()

		assert.Equal(t, []string{"slow"}, f.terms())
		assert.Empty(t, r.deliveries())
		assert.Equal(t, StateIdle, c.State())
	})
}

func TestController_EmptySubmitWhileInFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		gate := f.gate("x")
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("x")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()

		empty := c.Submit("")
		got := r.deliveries()
		require.Len(t, got, 1)
		assert.Equal(t, empty, got[0].query)
		assert.Empty(t, got[0].items)

		close(gate)
		synctest.Wait()
		assert.Len(t, r.deliveries(), 1, "the superseded result must never arrive")
	})
}

func TestController_StateTransitions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		gate := f.gate("q")
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		assert.Equal(t, StateIdle, c.State())

		q := c.Submit("q")
		assert.Equal(t, StateDelaying, c.State())
		cur, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, q, cur)

		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, StateInFlight, c.State())

		close(gate)
		synctest.Wait()
		assert.Equal(t, StateIdle, c.State())
		_, ok = c.Current()
		assert.False(t, ok)
	})
}

func TestController_SequenceIncreasesPerSubmit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newTestController(newFakeFetcher(), &recorder{})
		defer c.Close()

		q1 := c.Submit("a")
		q2 := c.Submit("")
		q3 := c.Submit("b")

		assert.True(t, q2.NewerThan(q1))
		assert.True(t, q3.NewerThan(q2))
	})
}

func TestController_ParamsFuncAndCustomDelay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		r := &recorder{}
		params := func(text string) map[string]string {
			return map[string]string{"term": text, "limit": "5"}
		}
		c := New[string](f, params, r.callbacks(), WithDelay(50*time.Millisecond))
		defer c.Close()

		q := c.Submit("jack johnson")
		v, ok := q.Param("limit")
		assert.True(t, ok)
		assert.Equal(t, "5", v)

		time.Sleep(51 * time.Millisecond)
		synctest.Wait()

		f.mu.Lock()
		calls := f.calls
		f.mu.Unlock()
		require.Len(t, calls, 1)
		assert.Equal(t, map[string]string{"term": "jack johnson", "limit": "5"}, calls[0])
	})
}

func TestController_RetryBySubmittingSameText(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		f.errs["flaky"] = TransportFailure(errors.New("connection reset"))
		r := &recorder{}
		c := newTestController(f, r)
		defer c.Close()

		c.Submit("flaky")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()

		f.mu.Lock()
		delete(f.errs, "flaky")
		f.mu.Unlock()

		c.Submit("flaky")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()

		got := r.deliveries()
		require.Len(t, got, 2)
		assert.ErrorIs(t, got[0].err, ErrTransportFailure)
		assert.Equal(t, []string{"result:flaky"}, got[1].items)
		assert.Equal(t, []string{"flaky", "flaky"}, f.terms())
	})
}

func TestController_CloseWaitsAndDisablesSubmit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFakeFetcher()
		f.honorsCtx = true
		f.gate("x")
		r := &recorder{}
		c := newTestController(f, r)

		c.Submit("x")
		time.Sleep(DefaultDelay + time.Millisecond)
		synctest.Wait()

		c.Close()
		assert.Equal(t, StateIdle, c.State())

		q := c.Submit("y")
		assert.True(t, q.IsZero())
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, []string{"x"}, f.terms())
		assert.Empty(t, r.deliveries())
	})
}
