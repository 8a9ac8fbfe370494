// Package download provides the sync orchestration for mirroring a fan's
// Bandcamp collection to disk.
//
// # Manager
//
// The Manager coordinates one sync run:
//
//  1. Fetch the full collection (ID → download page URL)
//  2. Drop items already recorded in the ledger (unless forced)
//  3. Apply the optional limit
//  4. Let a pool of workers resolve, filter and download each item
//  5. Record every finished item in the ledger
//
// # Basic Usage
//
//	client := http.NewClient(settings.ClientOptions())
//	manager := download.NewManager(settings, client, download.Callbacks{
//	    OnProgress: func(event download.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    },
//	})
//
//	summary, err := manager.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d downloaded, %d failed\n", summary.Downloaded, summary.Failed)
//
// # Concurrency
//
// settings.Jobs workers share one queue and one HTTP client, so the
// client's rate limiter bounds the whole run. Each item is processed by
// exactly one worker. Stop lets workers finish their current item and
// leaves the rest of the queue for the next run.
//
// # Extractor
//
// The Extractor stores a single item: it streams the chosen format to the
// file named by Content-Disposition, extracts zip packages, and runs the
// optional post-processing (cover art, ID3 tags, playlist).
//
// # Errors
//
// Only collection failures abort a run. Per-item failures are reported
// through Callbacks.OnProgress and counted in the Summary:
//
//   - ErrNoDownloads, *MissingFormatError: nothing to fetch in that format
//   - *DownloadError: the response could not be turned into a file
//   - *ArchiveError: a package could not be extracted (archive is kept)
//   - *FilesystemError: local I/O failed
package download
