// Package bulk provides high-throughput bulk file transfer between a local
// filesystem and object storage. It schedules every file as an independent
// unit of work, bounds how many run at once, and aggregates per-file
// success or failure into a single result instead of aborting on the first
// bad file.
//
// The orchestrator is written once against the storage.Client capability;
// backends for S3-compatible stores, Azure Blob Storage, and Google Cloud
// Storage live under storage/.
//
// Key features:
//   - Whole-directory upload and download preserving relative structure
//   - Explicit path-list transfers for arbitrary file sets
//   - Two concurrency strategies: fixed worker pool and admission gate
//   - Partial-failure tolerance with per-file outcome reporting
//   - Decoupled progress observation via ProgressReporter
//
// Example usage:
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithEndpoint("http://localhost:9000"),
//	    s3.WithPathStyle(true),
//	)
//	if err != nil {
//	    return err
//	}
//
//	orch, err := bulk.New(store, bulk.WithConcurrency(50))
//	if err != nil {
//	    return err
//	}
//
//	result, err := orch.UploadDir(ctx, "test_dir", "my_storage_dir")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("uploaded %d files, %d failed\n", result.Succeeded, result.Failed)
package bulk
