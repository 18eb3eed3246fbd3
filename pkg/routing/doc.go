// Package routing matches incoming request URLs against the configured
// route table.
//
// Each action's URL template is compiled once, when the table is built,
// into a sequence of literal and named-capture tokens. Matching a request
// walks that sequence; no patterns are constructed on the request path.
// Tables are immutable after Build, so a reload can swap in a fresh table
// through an atomic pointer without locking matchers out.
package routing
