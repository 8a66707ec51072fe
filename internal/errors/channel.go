package errors

import "sync"

// Record is the last error observed by one thread
type Record struct {
	Code          Code
	Message       string
	Suggestion    string
	HasSuggestion bool
}

// Channel holds one last-error slot per OS thread. A thread only ever reads
// and writes its own slot; the mutex guards the slot map, not the records.
type Channel struct {
	mu       sync.Mutex
	slots    map[uint64]Record
	threadID func() uint64
}

// NewChannel creates a channel keyed by the given thread-id source.
// A nil source uses CurrentThreadID.
func NewChannel(threadID func() uint64) *Channel {
	if threadID == nil {
		threadID = CurrentThreadID
	}
	return &Channel{
		slots:    make(map[uint64]Record),
		threadID: threadID,
	}
}

// Set records err for the calling thread. A nil err clears the slot.
func (c *Channel) Set(err error) Code {
	if err == nil {
		c.Clear()
		return CodeOK
	}
	e := As(err)
	rec := Record{
		Code:          e.Code,
		Message:       e.Message,
		Suggestion:    e.Suggestion,
		HasSuggestion: e.Suggestion != "",
	}
	if e.Err != nil {
		rec.Message += ": " + e.Err.Error()
	}

	tid := c.threadID()
	c.mu.Lock()
	c.slots[tid] = rec
	c.mu.Unlock()
	return e.Code
}

// Clear drops the calling thread's record
func (c *Channel) Clear() {
	tid := c.threadID()
	c.mu.Lock()
	delete(c.slots, tid)
	c.mu.Unlock()
}

// Last returns the calling thread's record
func (c *Channel) Last() (Record, bool) {
	tid := c.threadID()
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.slots[tid]
	return rec, ok
}

// Len returns the number of threads currently holding a record
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}
