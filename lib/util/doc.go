// Package util provides small generic building blocks shared by the
// keyspace actor and its storage engines:
//
//   - MPSCQueue: a lock-free multi-producer single-consumer queue used as
//     the actor's request intake.
//   - DeadlineHeap: a deadline-ordered priority queue with O(1) lookup by
//     id, used by the blocking-op registry's expiry sweep.
//   - GenerateSeed: a crypto/rand-backed seed for the actor's RNG.
package util
