// Package workers runs the background jobs of the vault sync server.
//
// Jobs implement [Worker] and are registered on a cron scheduler owned by
// [Workers]. The only job today is [PurgeWorker], which physically removes
// soft-deleted vault items once their retention period has passed.
package workers

// Worker is a single background job. Run performs one pass of the job and
// returns; the scheduler decides when the next pass happens.
type Worker interface {
	Run()
}
