package server

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noFlushWriter hides the recorder's Flush method
type noFlushWriter struct {
	http.ResponseWriter
}

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent(EventProgress, map[string]int{"index": 1}))
	sse.WriteError("render failed")
	sse.WriteComplete(map[string]string{"status": "completed"})

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "event: progress\ndata: {\"index\":1}\n\n"+
		"event: error\ndata: {\"error\":\"render failed\"}\n\n"+
		"event: complete\ndata: {\"status\":\"completed\"}\n\n", w.Body.String())
	assert.True(t, w.Flushed)
}

func TestSSEWriter_ConcurrentEventsStayWhole(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sse.WriteEvent(EventProgress, map[string]int{"index": i}))
		}()
	}
	wg.Wait()

	events := readEvents(t, w.Body.String())
	assert.Len(t, events, 50)
	for _, ev := range events {
		assert.Equal(t, EventProgress, ev[0])
	}
}

func TestSSEWriter_RequiresFlusher(t *testing.T) {
	_, err := NewSSEWriter(noFlushWriter{httptest.NewRecorder()})
	assert.Error(t, err)
}

func TestSSEWriter_UnencodableData(t *testing.T) {
	sse, err := NewSSEWriter(httptest.NewRecorder())
	require.NoError(t, err)
	assert.Error(t, sse.WriteEvent(EventProgress, make(chan int)))
}
