// Package assets provides the files the preview server adds to rendered
// documents: the live-reload script and the error page.
//
// # Layout
//
// Assets are embedded at compile time and organized by type:
//
//	scripts/
//	└── {name}.js     # injected before </body> (e.g., livereload.js)
//	pages/
//	└── {name}.html   # html/template pages (e.g., error.html)
//
// # Security
//
// Asset names are validated to prevent path traversal; page data is escaped
// by html/template.
package assets
