// Package ledger records which collection items have already been
// processed, so repeat runs only fetch what is new.
//
// The ledger is a plain text file, one record per line:
//
//	2950380513| Back In Black (1980) by AC/DC
//	1234567890| No downloads
//
// Records are only ever appended. Reading takes the text before the first
// "|" as the item ID; duplicate IDs are harmless.
//
// # Concurrency
//
// Ledger itself does no locking. Workers share a Guarded, whose Record
// method performs check-then-append as a single critical section:
//
//	g := ledger.NewGuarded(ledger.New(filepath.Join(root, ledger.DefaultFileName)))
//	written, err := g.Record(item.ID, item.Description())
package ledger
