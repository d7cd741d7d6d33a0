package handlers

import "sync"

// Dispatcher выполняет обработку обновлений параллельно для разных
// пользователей и строго по очереди для одного пользователя: фото альбома
// попадают в диалог в порядке доставки.
// Dispatcher runs jobs concurrently across users and in FIFO order per user.
type Dispatcher struct {
	mu     sync.Mutex
	queues map[int64][]func() // Ключ: Telegram ID пользователя
	wg     sync.WaitGroup
}

// NewDispatcher создает пустой Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{queues: make(map[int64][]func())}
}

// Dispatch ставит задачу в очередь пользователя. Если очередь пуста,
// запускается воркер, который завершается, когда очередь опустеет.
func (d *Dispatcher) Dispatch(userID int64, job func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	queue, running := d.queues[userID]
	d.queues[userID] = append(queue, job)
	if running {
		return
	}
	d.wg.Add(1)
	go d.drain(userID)
}

func (d *Dispatcher) drain(userID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.queues[userID]
		if len(queue) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		job := queue[0]
		d.queues[userID] = queue[1:]
		d.mu.Unlock()

		job()
	}
}

// Wait блокируется, пока не будут выполнены все поставленные задачи.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Pending - количество пользователей с незавершенной очередью.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}
