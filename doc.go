// Package libreveal compiles client-side library signatures into a
// standalone detection script.
//
// The input is the RetireJS signature feed (jsrepository.json) plus an
// optional local-extensions feed in the same shape. The output is
// libreveal.js, a script that inspects the global namespace of a page and logs
// every library it recognises, and libreveal.min.js, a compacted copy.
//
// # Pipeline
//
// Compilation is pure and runs in four steps:
//
//  1. Normalize: every feed entry is mapped to a canonical library name
//     (its first "bowername" alias, else its key) and its extractors.func
//     expressions are collected in document order.
//  2. Split: an alternation such as "(jQuery|$).fn.jquery" becomes one
//     expression per alternative. Constructor expressions ("new X()") are
//     dropped.
//  3. Guard: each expression gets a typeof chain so it can be evaluated
//     safely when the library is missing.
//  4. Assemble: the guarded checks form one if/else-if chain per library,
//     so at most one detection per library is logged.
//
// [Compile] runs these steps over parsed documents.
//
// # Driver
//
// [Engine] wraps compilation with I/O: it fetches the remote feed, loads the
// local extensions, skips work when neither feed changed since the last
// recorded run, writes both artifacts and records the run in SQLite:
//
//	e, err := libreveal.New(".libreveal/state.db", feed.NewGetter(url),
//		libreveal.WithLocalSource(feed.NewLocal("json/libreveal_jsrepository.json")))
//	if err != nil { ... }
//	defer e.Close()
//
//	res, err := e.Run(ctx)
//
// Local extensions may also be written as Risor scripts (.risor) whose final
// value is a map in feed shape. See the internal/runtime package for the
// globals exposed to those scripts.
package libreveal
