// Package fetch implements the source adapters the pipeline reads from.
//
// Adapters:
//   - SheetSource: market bars from the spreadsheet's CSV export
//   - NewsClient: articles from a news API, one source at a time
//   - ForumScraper: social posts scraped from configured platforms
//
// The pipeline consumes these through its own interfaces; nothing here
// leaks into the transform or load stages.
package fetch
