package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_Advances(t *testing.T) {
	c := NewStepClock(Epoch, time.Second)
	assert.Equal(t, Epoch, c.Now())
	assert.Equal(t, Epoch.Add(time.Second), c.Now())
	assert.Equal(t, 2, c.Calls())
}

func TestStepClock_ConcurrentUse(t *testing.T) {
	c := NewStepClock(Epoch, time.Millisecond)
	var wg sync.WaitGroup
	seen := make(chan time.Time, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[time.Time]bool{}
	for ts := range seen {
		unique[ts] = true
	}
	assert.Len(t, unique, 100)
	assert.Equal(t, 100, c.Calls())
}

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("")
	assert.Equal(t, "job-0001", g.Generate())
	assert.Equal(t, "job-0002", g.Generate())

	g = NewSequentialIDs("batch")
	assert.Equal(t, "batch-0001", g.Generate())
}
