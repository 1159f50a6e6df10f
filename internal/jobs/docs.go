// Package jobs holds the scheduled background work of the dispatch engine,
// built on github.com/robfig/cron/v3.
//
// Two jobs run every second ("* * * * * *" with seconds enabled):
//
//  1. RiderMatchingJob - offers each PENDING delivery to the best candidate
//     rider and rejects deliveries whose candidate pool is exhausted.
//  2. MatchingExpiryJob - rejects deliveries that stayed PENDING longer than
//     the matching window.
//
// Both are wrapped by JobManager, which starts them together and rolls back
// already-started jobs when a later one fails to start. The jobs themselves
// carry no business logic; they only schedule the corresponding command
// handlers.
package jobs
