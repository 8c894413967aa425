// Package docintel embeds the document intelligence pipeline in a Go program:
// classification of recognized text, routing into life domains, entry storage
// and ranked free-text search with term expansion.
//
// The client talks to storage directly; no HTTP server is involved.
//
//	client, _ := docintel.New(ctx, docintel.WithSQLite("data/docintel.db"))
//	defer client.Close()
//
//	res, _ := client.Ingest(ctx, docintel.Upload{OwnerID: "u1", Text: ocrText})
//	hits, _ := client.Search(ctx, "u1", docintel.SearchQuery{Q: "car insurance, dl"})
//
// AI classification and expansion are enabled by WithCompleter; without it the
// keyword rules and the built-in dictionary are used.
package docintel
