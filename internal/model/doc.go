// Package model defines the core data structures shared by the scraper,
// the downloader and the ledger.
//
// # Item
//
// Item is one purchased release. The collection only yields its ID and
// download page URL (a WorkItem); the resolver fills in the rest:
//
//	item := &model.Item{ID: "a123", Title: "Back In Black", Artist: "AC/DC"}
//	fmt.Println(item.FullTitle())              // Back In Black - AC/DC
//	fmt.Println(item.DestinationPath("/music")) // /music/AC∕DC/Back In Black (0000)
//
// # File Names
//
// MakeFSSafe turns arbitrary titles into names that are valid on every
// common filesystem by replacing reserved characters with look-alikes.
package model
