/*
Package comet implements the core state engine of an HTTP long-polling
publish/subscribe relay.

A client opens a request naming a channel and a sequence number. The
server either replies immediately with any buffered messages newer than
that sequence, or parks the request until a message is published, a
noop is due, or the connection is closed. Publishers push messages into
named channels; presence subscribers receive a stream of channel
online/offline events.

This package defines the semantic operations (Sub, Pub, Sign, Close,
Ping, Info, Check, PSub), the data they carry, and the JSONP frames
they render (frame.go). It has no knowledge of HTTP or routing; see the
comethttp package for that. The package is deliberately single-writer:
a Core owns its channel pool, name index and presence list on a single
goroutine, and every operation except Ping (which reads only the
config) is a request/response round trip over an unbuffered channel, so
callers never need to hold a lock.
*/
package comet
