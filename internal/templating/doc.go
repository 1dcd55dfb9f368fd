// Package templating renders one HTML fragment per data record with
// html/template.
//
// An Environment binds a template search root, a set of helper functions and
// a logger. Templates referenced with {{template "file.html" .}} are loaded
// lazily from the search root. Fields a template references but a record
// lacks are logged and bound to a nil *Undefined: falsy in conditionals and
// in and, or and not, unequal to defined values in eq and ne, and an error
// when printed, ranged over or dereferenced.
package templating
