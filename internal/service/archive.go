package service

import (
	"Haven/internal/model"
	"context"
	log "log/slog"
	"sync"
	"time"
)

// MessageArchiver 消息归档存储
type MessageArchiver interface {
	SaveMessage(ctx context.Context, msg *model.Message) error
	UpdateStatus(ctx context.Context, messageID string, status model.MessageStatus) error
	DeleteConversation(ctx context.Context, conversationID string) error
}

type archiveJob struct {
	name string
	run  func(ctx context.Context) error
}

// archiveQueue 异步归档工作池，失败按指数退避重试；archiver 为空时不做任何事
type archiveQueue struct {
	archiver MessageArchiver
	jobs     chan archiveJob
	retries  int
	backoff  time.Duration
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func newArchiveQueue(archiver MessageArchiver, workers, size, retries int, backoff time.Duration) *archiveQueue {
	q := &archiveQueue{archiver: archiver}
	if archiver == nil {
		return q
	}
	q.jobs = make(chan archiveJob, size)
	q.retries = retries
	q.backoff = backoff
	q.stopChan = make(chan struct{})

	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.worker()
	}
	return q
}

func (q *archiveQueue) saveMessage(msg model.Message) {
	q.enqueue("save_message", func(ctx context.Context) error {
		return q.archiver.SaveMessage(ctx, &msg)
	})
}

func (q *archiveQueue) updateStatus(messageID string, status model.MessageStatus) {
	q.enqueue("update_status", func(ctx context.Context) error {
		return q.archiver.UpdateStatus(ctx, messageID, status)
	})
}

func (q *archiveQueue) deleteConversation(conversationID string) {
	q.enqueue("delete_conversation", func(ctx context.Context) error {
		return q.archiver.DeleteConversation(ctx, conversationID)
	})
}

func (q *archiveQueue) enqueue(name string, run func(ctx context.Context) error) {
	if q == nil || q.archiver == nil {
		return
	}
	select {
	case <-q.stopChan:
		return
	default:
	}
	select {
	case q.jobs <- archiveJob{name: name, run: run}:
	default:
		log.Warn("Archive queue full, job dropped", "job", name)
	}
}

func (q *archiveQueue) worker() {
	defer q.wg.Done()
	for {
		select {
		case job := <-q.jobs:
			q.process(job)
		case <-q.stopChan:
			// 退出前尽量写完队列中剩余的任务，每个任务只尝试一次
			for {
				select {
				case job := <-q.jobs:
					q.process(job)
				default:
					return
				}
			}
		}
	}
}

func (q *archiveQueue) process(job archiveJob) {
	backoff := q.backoff
	for i := 0; i <= q.retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := job.run(ctx)
		cancel()
		if err == nil {
			return
		}
		log.Error("Archive job failed", "job", job.name, "attempt", i+1, "err", err)
		if i == q.retries {
			break
		}
		select {
		case <-time.After(backoff):
		case <-q.stopChan:
			return
		}
		backoff *= 2
	}
}

func (q *archiveQueue) close() {
	if q == nil || q.archiver == nil {
		return
	}
	q.stopOnce.Do(func() {
		close(q.stopChan)
		q.wg.Wait()
	})
}
