// Package preview serves rendered documents over HTTP and reloads open
// browsers when the template or data changes.
//
// Three pieces cooperate:
//
//	Watcher  - fsnotify on a set of directories, debounced
//	Hub      - websocket clients waiting for "reload"
//	Server   - chi router: GET / renders, GET /ws joins the hub,
//	           anything else is served from the template directory
//
// The server does not cache: every GET / is a fresh render, so a reload
// always reflects the files on disk.
package preview
