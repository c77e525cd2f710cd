// Package queue is a repository-agnostic task queue used to hand channel
// deliveries that declare a queue name over to asynchronous processing.
//
// The package has three parts:
//
//   - Enqueuer: serializes a payload into a Task and stores it
//   - Processor: claims pending tasks and dispatches them to a registered Handler
//   - MemoryStorage: an in-process repository for tests and local development
//
// Components talk to storage only through the EnqueuerRepository and
// ProcessorRepository interfaces, so the queue can be backed by any store.
// The Processor performs one claim-handle-ack step per call; the polling loop
// that drives it belongs to the hosting process.
//
// # Usage
//
//	store := queue.NewMemoryStorage()
//	enq, _ := queue.NewEnqueuer(store, queue.WithDefaultQueue("notifications"))
//
//	id, err := enq.Enqueue(ctx, notify.DeliveryTask{Envelope: env},
//	    queue.WithQueue("mail"),
//	    queue.WithMaxRetries(5),
//	)
//
//	proc, _ := queue.NewProcessor(store, queue.WithQueues("mail"))
//	_ = proc.Register(notify.NewDeliveryHandler(catalog))
//	n, err := proc.Drain(ctx)
//
// # Handlers
//
// NewTaskHandler wraps a typed function. The handler name is the fully
// qualified type name of the payload, which is also the name the Enqueuer
// assigns to tasks, so the two match without manual naming.
//
// # Errors
//
// Sentinel errors such as ErrRepositoryNil, ErrNoTaskToClaim and
// ErrHandlerNotFound can be matched with errors.Is.
package queue
