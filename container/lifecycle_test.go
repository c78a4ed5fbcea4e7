package container_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-containers/container"
	"github.com/robert-malhotra/go-containers/internal/elemtest"
)

type valuer interface {
	Value() int
}

// runVectorScript applies the same operations to a vector of movable or
// pinned resources and returns the values seen after every step.
func runVectorScript[R valuer](t *testing.T, mk func(*elemtest.Ledger, int) R) [][]int {
	t.Helper()
	l := elemtest.NewLedger()
	tracker := container.NewTracker()
	v := container.NewVector[R](container.WithTracker(tracker))

	var steps [][]int
	snap := func() {
		steps = append(steps, elemtest.Values(v.Data()))
	}

	for i := 1; i <= 6; i++ {
		require.NoError(t, v.PushBack(mk(l, i)))
	}
	snap()

	require.NoError(t, v.Erase(2))
	snap()

	require.NoError(t, v.Insert(0, mk(l, 10)))
	snap()

	require.NoError(t, v.Replace(1, mk(l, 20)))
	snap()

	src := mk(l, 30)
	require.NoError(t, v.ReplaceCopy(2, src))
	require.NoError(t, v.InsertCopy(3, src))
	require.NoError(t, v.PushBackCopy(src))
	any(&src).(container.Destroyer).Destroy()
	snap()

	require.NoError(t, v.SwapItems(0, v.Len()-1))
	snap()

	v.PopBack()
	v.Resize(5)
	snap()

	clone, err := v.Clone()
	require.NoError(t, err)
	require.NoError(t, clone.Erase(0))
	assert.Equal(t, steps[len(steps)-1], elemtest.Values(v.Data()))
	clone.Release()

	require.NoError(t, v.ShrinkToFit())
	require.NoError(t, v.Reserve(40))
	snap()

	v.Clear()
	assert.Equal(t, 0, l.Live())
	require.NoError(t, v.PushBack(mk(l, 99)))
	snap()

	v.Release()
	assert.Equal(t, 0, l.Live())
	assert.Zero(t, l.Faults)
	require.NoError(t, tracker.CheckReleased())
	require.NoError(t, tracker.Validate())
	return steps
}

func TestVectorVariantsAgree(t *testing.T) {
	movable := runVectorScript(t, (*elemtest.Ledger).New)
	pinned := runVectorScript(t, (*elemtest.Ledger).Pinned)
	require.Equal(t, movable, pinned)

	require.Equal(t, [][]int{
		{1, 2, 3, 4, 5, 6},
		{1, 2, 4, 5, 6},
		{10, 1, 2, 4, 5, 6},
		{10, 20, 2, 4, 5, 6},
		{10, 20, 30, 30, 4, 5, 6, 30},
		{30, 20, 30, 30, 4, 5, 6, 10},
		{30, 20, 30, 30, 4},
		{30, 20, 30, 30, 4},
		{99},
	}, movable)
}

func TestVectorCloneRollback(t *testing.T) {
	l := elemtest.NewLedger()
	tracker := container.NewTracker()
	v := container.NewVector[elemtest.Resource](container.WithTracker(tracker))
	for i := 0; i < 5; i++ {
		require.NoError(t, v.PushBack(l.New(i)))
	}
	allocs := tracker.Stats().TotalAllocations

	l.FailAt = l.Clones + 3
	c, err := v.Clone()
	require.ErrorIs(t, err, elemtest.ErrCloneFailed)
	require.Nil(t, c)

	assert.Equal(t, 5, l.Live())
	assert.Zero(t, l.Faults)
	assert.Equal(t, allocs+1, tracker.Stats().TotalAllocations)
	assert.Len(t, tracker.Live(), 1, "clone buffer must be released")

	v.Release()
	assert.Equal(t, 0, l.Live())
	require.NoError(t, tracker.CheckReleased())
}

func TestVectorFromRollback(t *testing.T) {
	l := elemtest.NewLedger()
	tracker := container.NewTracker()
	items := []elemtest.Resource{l.New(1), l.New(2), l.New(3)}

	l.FailAt = 2
	v, err := container.NewVectorFrom(items, container.WithTracker(tracker))
	require.ErrorIs(t, err, elemtest.ErrCloneFailed)
	require.Nil(t, v)
	assert.Equal(t, 3, l.Live())
	require.NoError(t, tracker.CheckReleased())
	require.NoError(t, tracker.Validate())
}

func TestPinnedGrowthFailure(t *testing.T) {
	l := elemtest.NewLedger()
	v := container.NewVector[elemtest.PinnedResource]()
	require.NoError(t, v.PushBack(l.Pinned(1)))
	require.NoError(t, v.PushBack(l.Pinned(2)))

	// The vector is full, so the next push relocates through Clone.
	l.FailAt = l.Clones + 2
	item := l.Pinned(3)
	err := v.PushBack(item)
	require.ErrorIs(t, err, elemtest.ErrCloneFailed)
	assert.Equal(t, []int{1, 2}, elemtest.Values(v.Data()))
	assert.Equal(t, 2, v.Cap())
	assert.Equal(t, 3, l.Live())

	// The rejected item still belongs to the caller.
	item.Destroy()
	v.Release()
	assert.Equal(t, 0, l.Live())
	assert.Zero(t, l.Faults)
}

func TestPinnedEraseFailure(t *testing.T) {
	l := elemtest.NewLedger()
	v := container.NewVectorSized[elemtest.PinnedResource](4)
	for i := 1; i <= 4; i++ {
		require.NoError(t, v.PushBack(l.Pinned(i)))
	}

	l.FailAt = l.Clones + 1
	require.ErrorIs(t, v.Erase(0), elemtest.ErrCloneFailed)
	assert.Equal(t, []int{1, 2, 3, 4}, elemtest.Values(v.Data()))

	l.FailAt = l.Clones + 2
	require.ErrorIs(t, v.SwapItems(0, 3), elemtest.ErrCloneFailed)
	assert.Equal(t, []int{1, 2, 3, 4}, elemtest.Values(v.Data()))

	v.Release()
	assert.Equal(t, 0, l.Live())
	assert.Zero(t, l.Faults)
}

func TestAssignRollback(t *testing.T) {
	l := elemtest.NewLedger()
	src := container.NewVector[elemtest.Resource]()
	for i := 0; i < 6; i++ {
		require.NoError(t, src.PushBack(l.New(i)))
	}

	dst := container.NewVector[elemtest.Resource]()
	require.NoError(t, dst.PushBack(l.New(100)))

	// Not enough room: the copy goes to a fresh buffer and dst survives.
	l.FailAt = l.Clones + 4
	require.ErrorIs(t, dst.Assign(src), elemtest.ErrCloneFailed)
	assert.Equal(t, []int{100}, elemtest.Values(dst.Data()))
	assert.Equal(t, 7, l.Live())

	require.NoError(t, dst.Assign(src))
	assert.Equal(t, elemtest.Values(src.Data()), elemtest.Values(dst.Data()))
	assert.Equal(t, 12, l.Live())

	dst.Release()
	src.Release()
	assert.Equal(t, 0, l.Live())
	assert.Zero(t, l.Faults)
}

func TestArrayLifecycle(t *testing.T) {
	l := elemtest.NewLedger()
	tracker := container.NewTracker()
	src := []elemtest.Resource{l.New(1), l.New(2), l.New(3), l.New(4), l.New(5)}

	a, err := container.NewArrayFrom(src, container.Dims(2, 2, 3), container.WithTracker(tracker))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 0}, elemtest.Values(a.Data()))
	assert.Equal(t, 10, l.Live())

	require.NoError(t, a.ClearAt(0))
	assert.Equal(t, []int{0, 0, 0, 4, 5, 0}, elemtest.Values(a.Data()))
	assert.Equal(t, 7, l.Live())

	require.NoError(t, a.Set(l.New(9), 1, 2))
	require.NoError(t, a.Set(l.New(8), 1, 0))
	assert.Equal(t, 8, l.Live())

	b, err := a.Clone()
	require.NoError(t, err)
	assert.Equal(t, 11, l.Live())

	slab, err := b.Slab([]int{1, 0}, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{8, 5}, elemtest.Values(slab))
	for i := range slab {
		slab[i].Destroy()
	}

	l.FailAt = l.Clones + 2
	_, err = b.Slab([]int{1, 0}, []int{1, 3})
	require.ErrorIs(t, err, elemtest.ErrCloneFailed)
	assert.Equal(t, 11, l.Live())

	b.Clear()
	assert.Equal(t, 8, l.Live())
	b.Release()
	a.Release()
	for i := range src {
		src[i].Destroy()
	}
	assert.Equal(t, 0, l.Live())
	assert.Zero(t, l.Faults)
	require.NoError(t, tracker.CheckReleased())
	require.NoError(t, tracker.Validate())
}

func TestArrayFromRollback(t *testing.T) {
	l := elemtest.NewLedger()
	tracker := container.NewTracker()
	src := []elemtest.PinnedResource{l.Pinned(1), l.Pinned(2), l.Pinned(3)}

	l.FailAt = 3
	a, err := container.NewArrayFrom(src, container.Dims(1, 4), container.WithTracker(tracker))
	require.ErrorIs(t, err, elemtest.ErrCloneFailed)
	require.Nil(t, a)
	assert.Equal(t, 3, l.Live())
	require.NoError(t, tracker.CheckReleased())
}

func TestArrayPutSlabRollback(t *testing.T) {
	l := elemtest.NewLedger()
	a, err := container.NewArray[elemtest.Resource](container.Dims(2, 3))
	require.NoError(t, err)
	for i := 0; i < a.Size(); i++ {
		a.Data()[i] = l.New(i + 1)
	}

	vals := []elemtest.Resource{l.New(10), l.New(11), l.New(12), l.New(13)}
	l.FailAt = l.Clones + 3
	err = a.PutSlab([]int{0, 1}, []int{2, 2}, vals)
	require.ErrorIs(t, err, elemtest.ErrCloneFailed)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, elemtest.Values(a.Data()))
	assert.Equal(t, 13, l.Live())

	require.NoError(t, a.PutSlab([]int{0, 1}, []int{2, 2}, vals))
	assert.Equal(t, []int{1, 10, 11, 4, 12, 13, 7, 8, 9}, elemtest.Values(a.Data()))
	assert.Equal(t, 13, l.Live())

	for i := range vals {
		vals[i].Destroy()
	}
	a.Release()
	assert.Equal(t, 0, l.Live())
	assert.Zero(t, l.Faults)
}

func TestArrayFromSeqCopies(t *testing.T) {
	l := elemtest.NewLedger()
	tracker := container.NewTracker()
	src := []elemtest.Resource{l.New(1), l.New(2)}

	a, err := container.NewArrayFromSeq(slices.Values(src), container.Dims(1, 4), container.WithTracker(tracker))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0, 0}, elemtest.Values(a.Data()))
	assert.Equal(t, 2, l.Clones)
	assert.Equal(t, 4, l.Live())

	a.Release()
	assert.Equal(t, 2, l.Live())
	for i := range src {
		src[i].Destroy()
	}
	assert.Equal(t, 0, l.Live())
	assert.Zero(t, l.Faults)
	require.NoError(t, tracker.CheckReleased())
}

func TestArrayFromSeqRollback(t *testing.T) {
	t.Run("too long", func(t *testing.T) {
		l := elemtest.NewLedger()
		tracker := container.NewTracker()
		src := []elemtest.Resource{l.New(1), l.New(2), l.New(3)}

		a, err := container.NewArrayFromSeq(slices.Values(src), container.Dims(1, 2), container.WithTracker(tracker))
		require.ErrorIs(t, err, container.ErrTooManyInitialElements)
		require.Nil(t, a)
		assert.Equal(t, 3, l.Live(), "caller's values survive")
		assert.Equal(t, 2, l.Destroyed, "only the copies are destroyed")
		require.NoError(t, tracker.CheckReleased())

		for i := range src {
			src[i].Destroy()
		}
		assert.Zero(t, l.Faults)
	})

	t.Run("copy fails", func(t *testing.T) {
		l := elemtest.NewLedger()
		tracker := container.NewTracker()
		src := []elemtest.PinnedResource{l.Pinned(1), l.Pinned(2), l.Pinned(3)}

		l.FailAt = 3
		a, err := container.NewArrayFromSeq(slices.Values(src), container.Dims(1, 4), container.WithTracker(tracker))
		require.ErrorIs(t, err, elemtest.ErrCloneFailed)
		require.Nil(t, a)
		assert.Equal(t, 3, l.Live())
		assert.Equal(t, 2, l.Destroyed)
		require.NoError(t, tracker.CheckReleased())

		for i := range src {
			src[i].Destroy()
		}
		assert.Zero(t, l.Faults)
	})
}

func TestEraseUnorderedLifecycle(t *testing.T) {
	t.Run("movable", func(t *testing.T) {
		l := elemtest.NewLedger()
		v := container.NewVector[elemtest.Resource]()
		for i := 1; i <= 4; i++ {
			require.NoError(t, v.PushBack(l.New(i)))
		}
		require.NoError(t, v.EraseUnordered(0))
		assert.Equal(t, []int{4, 2, 3}, elemtest.Values(v.Data()))
		assert.Equal(t, 3, l.Live())
		assert.Zero(t, l.Clones)

		v.Release()
		assert.Equal(t, 0, l.Live())
		assert.Zero(t, l.Faults)
	})

	t.Run("pinned", func(t *testing.T) {
		l := elemtest.NewLedger()
		v := container.NewVector[elemtest.PinnedResource]()
		for i := 1; i <= 4; i++ {
			require.NoError(t, v.PushBack(l.Pinned(i)))
		}

		l.FailAt = l.Clones + 1
		require.ErrorIs(t, v.EraseUnordered(1), elemtest.ErrCloneFailed)
		assert.Equal(t, []int{1, 2, 3, 4}, elemtest.Values(v.Data()))
		assert.Equal(t, 4, l.Live())

		require.NoError(t, v.EraseUnordered(1))
		assert.Equal(t, []int{1, 4, 3}, elemtest.Values(v.Data()))
		assert.Equal(t, 3, l.Live())

		v.Release()
		assert.Equal(t, 0, l.Live())
		assert.Zero(t, l.Faults)
	})
}
