// Package server provides HTTP routing, middleware, and the JSON API used by a tablet on stage.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns internally.
//
// # API
//
// [APIHandler] exposes the session over JSON:
//
//	GET  /health                     catalog size
//	GET  /api/songs                  filtered catalog (q, era, artist, tag, sort)
//	GET  /api/songs/{id}/chords      chord chart (offset)
//	GET  /api/sets                   saved set names
//	GET  /api/sets/{name}            saved set (format, chords, offset)
//	POST /api/sets/{name}/build      build a smart set from the filtered catalog and save it
//	GET  /api/transpose              transpose one chord (chord, offset)
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
