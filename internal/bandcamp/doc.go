// Package bandcamp scrapes the pages and private API behind a fan's
// Bandcamp collection.
//
// The package handles two main use cases:
//
//  1. Discovering every purchased item of a fan (Collection)
//  2. Resolving one item's download page into metadata and download links
//     (Resolver)
//
// # Collection Discovery
//
//	c := bandcamp.NewCollection(client, bandcamp.CollectionOptions{})
//	res, err := c.Fetch(ctx, "someone")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d items in %s\n", len(res.Items), res.Title)
//
// # Item Resolution
//
//	r := bandcamp.NewResolver(client)
//	item, err := r.Resolve(ctx, id, downloadPageURL)
//	if errors.Is(err, bandcamp.ErrNotFound) {
//	    // nothing to download for this ID
//	}
//
// # Bandcamp Data Format
//
// Bandcamp embeds page state as JSON in the data-blob attribute of the
// element with id "pagedata". This package extracts it with goquery and
// decodes it into the types in the dto subpackage. A missing or malformed
// blob is always a *ParseError, never ErrNotFound.
package bandcamp
