package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutexSerializesSameKey(t *testing.T) {
	m := NewShardedMutex()
	const workers = 32
	const iterations = 200

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				m.Lock("commitment-a")
				counter++
				m.Unlock("commitment-a")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
}

func TestShardedMutexEmptyKeyDefaultsToShardZero(t *testing.T) {
	m := NewShardedMutex()
	m.Lock("")
	m.Unlock("")
	assert.Equal(t, 0, m.shardFor(""))
}

func TestShardForIsStable(t *testing.T) {
	m := NewShardedMutex()
	assert.Equal(t, m.shardFor("abc"), m.shardFor("abc"))
}
