// Package catalog assembles, indexes and filters the song catalog.
//
// A catalog is built by [Merge] from one or more source collections, keeping the first record for each id and dropping
// records without an id. The [Loader] reads those collections from local JSON files or HTTP(S) URLs in parallel.
//
// [Filter] is the single filtering contract shared by the catalog listing, the smart set builder and the HTTP
// surface: a case-insensitive text query over title and artist, exact era and artist matches, tag membership, and a
// stable numeric sort.
package catalog
