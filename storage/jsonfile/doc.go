// Package jsonfile implements the catalog on a single JSON document.
//
// The whole record sequence lives in one file. Load parses it wholesale;
// Append rewrites it wholesale through a temp file and an atomic rename, so
// a crashed writer leaves either the old catalog or the new one, never a
// torn file. A sidecar lock file serializes writers across processes.
package jsonfile
