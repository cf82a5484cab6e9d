// Package queue implements the priority index over the task store:
// a derived ordering of tasks by priority tier, then creation time.
// The index is an ordering aid only; the store remains the
// authoritative record of task existence and content.
package queue

import (
	"sort"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// item pairs a read-only snapshot of a task with its precomputed
// ordering key. Snapshots are refreshed by the store on every update,
// so the index never holds a mutable reference into the store.
type item struct {
	task   domain.Task
	weight int
	seq    uint64
}

// PriorityQueue keeps tasks ordered by descending priority weight
// (high=3, medium=2, low=1) with ties broken by ascending creation
// time, so tasks within a tier dequeue in FIFO order.
//
// PriorityQueue is not safe for concurrent use; the owning store
// serializes access under its own lock.
type PriorityQueue struct {
	items   []item
	nextSeq uint64
}

// NewPriorityQueue creates an empty priority queue.
func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{}
}

// Enqueue inserts a snapshot of the task at its ordered position.
// Insertion is a binary search plus a single slice shift rather than a
// full re-sort.
func (q *PriorityQueue) Enqueue(task domain.Task) {
	it := item{task: task, weight: task.Priority.Weight(), seq: q.nextSeq}
	q.nextSeq++

	pos := sort.Search(len(q.items), func(i int) bool {
		return q.ranksAfter(q.items[i], it)
	})

	q.items = append(q.items, item{})
	copy(q.items[pos+1:], q.items[pos:])
	q.items[pos] = it
}

// ranksAfter reports whether a sorts strictly after b.
func (q *PriorityQueue) ranksAfter(a, b item) bool {
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
		return a.task.CreatedAt.After(b.task.CreatedAt)
	}
	// Equal creation times fall back to enqueue order.
	return a.seq > b.seq
}

// Dequeue removes and returns the highest-ranked task. The boolean is
// false when the queue is empty.
func (q *PriorityQueue) Dequeue() (domain.Task, bool) {
	if len(q.items) == 0 {
		return domain.Task{}, false
	}

	task := q.items[0].task
	q.items = q.items[1:]
	return task, true
}

// Peek returns the highest-ranked task without removing it.
func (q *PriorityQueue) Peek() (domain.Task, bool) {
	if len(q.items) == 0 {
		return domain.Task{}, false
	}
	return q.items[0].task, true
}

// PeekOwnedBy returns the highest-ranked task owned by ownerID without
// removing it. The boolean is false when the owner has no tasks.
func (q *PriorityQueue) PeekOwnedBy(ownerID uuid.UUID) (domain.Task, bool) {
	for _, it := range q.items {
		if it.task.OwnerID == ownerID {
			return it.task, true
		}
	}
	return domain.Task{}, false
}

// Remove deletes the task with the given ID from the index.
// Returns false if no such task is indexed.
func (q *PriorityQueue) Remove(id uuid.UUID) bool {
	for i, it := range q.items {
		if it.task.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Refresh replaces the indexed snapshot of the task, re-establishing
// its position after a priority change. A task that was not indexed is
// simply inserted.
func (q *PriorityQueue) Refresh(task domain.Task) {
	q.Remove(task.ID)
	q.Enqueue(task)
}

// Len returns the number of indexed tasks.
func (q *PriorityQueue) Len() int {
	return len(q.items)
}

// IsEmpty reports whether the queue holds no tasks.
func (q *PriorityQueue) IsEmpty() bool {
	return len(q.items) == 0
}
