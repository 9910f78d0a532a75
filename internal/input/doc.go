// Package input decodes the terminal's raw byte stream into typed events.
//
// Parser is a streaming state machine: bytes are fed in as they arrive, and
// complete events come out. Bytes belonging to an unfinished escape sequence
// are buffered and carried to the next Feed call, so sequences may be split
// across read boundaries at any point. All state transitions are byte-driven.
// The one timing decision, whether a lone 0x1B is the Escape key or the
// start of a sequence, is delegated to Resolver, which calls Expire after a
// short timeout. This keeps the parser itself testable without real time.
package input
