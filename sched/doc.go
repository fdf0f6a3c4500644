// Package sched implements a lightweight, embeddable thread-and-task
// runtime: a managed worker (Thread) draining a private priority queue,
// a cheap task handle (Task), and a load-aware pool of workers
// (ThreadPool) that routes work to whichever worker is least loaded.
package sched
