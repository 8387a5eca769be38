package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatQueues runs the updates of one chat one at a time in arrival order.
// Different chats are handled in parallel.
type chatQueues struct {
	mu      sync.Mutex
	pending map[int64][]tgbotapi.Update
	wg      sync.WaitGroup
}

func newChatQueues() *chatQueues {
	return &chatQueues{pending: make(map[int64][]tgbotapi.Update)}
}

// push enqueues update and starts a worker for the chat if none is running.
// It must be called from a single goroutine.
func (q *chatQueues) push(chatID int64, update tgbotapi.Update, handle func(tgbotapi.Update)) {
	q.mu.Lock()
	queue, running := q.pending[chatID]
	q.pending[chatID] = append(queue, update)
	q.mu.Unlock()

	if running {
		return
	}

	q.wg.Add(1)
	go q.drain(chatID, handle)
}

func (q *chatQueues) drain(chatID int64, handle func(tgbotapi.Update)) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		queue := q.pending[chatID]
		if len(queue) == 0 {
			delete(q.pending, chatID)
			q.mu.Unlock()
			return
		}
		next := queue[0]
		q.pending[chatID] = queue[1:]
		q.mu.Unlock()

		handle(next)
	}
}

// wait blocks until every queued update has been handled.
func (q *chatQueues) wait() {
	q.wg.Wait()
}

func (q *chatQueues) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
