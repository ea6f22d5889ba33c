// Package jobs provides scheduled background tasks for the story map service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ProductionExportJob - Generates and delivers manufacturing files for approved orders
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	exportJob := jobs.NewProductionExportJob(exportNextHandler, jobs.ExportJobConfig{}, logger)
//	jobManager := jobs.NewJobManager(exportJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The export job uses a six field cron expression with seconds, "*/30 * * * * *"
// by default. A run that is still busy when the next one is due causes that
// next run to be skipped.
//
// # Error Handling
//
// - An empty export queue is not an error
// - An order whose export fails is retried with exponential backoff while the
// orders behind it continue
// - Failed job starts will stop any already running jobs
package jobs
