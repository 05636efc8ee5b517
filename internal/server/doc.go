// Package server provides HTTP routing, middleware and a graceful lifecycle for the web form.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [WithRequestID], [WithLogging] and [WithRecover] are the stock middleware used by `lagu serve`.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// Each path is mounted once and dispatched by method, so GET / and POST / can be served by different handlers.
// An unregistered method gets a 405 with an Allow header; HEAD falls back to GET.
//
// # Lifecycle
//
// [Server.Run] serves until its context is cancelled and then shuts down with a bounded timeout.
package server
