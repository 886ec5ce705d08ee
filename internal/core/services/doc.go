// Package services contains the core orchestrators: the sync engine
// that drives crawls through the extract→chunk→embed→upsert pipeline,
// the retrieval ranker that answers semantic queries, and the document
// read service.
package services
