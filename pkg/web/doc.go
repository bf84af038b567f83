// Package web exposes the journalfs service over HTTP.
//
// All routes answer with JSON. Any failure is reported with status 500 and a body
// {"status":"error","message":"..."}: the message tells failures apart.
package web
