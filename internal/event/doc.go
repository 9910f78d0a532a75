// Package event defines the typed terminal input events produced by the
// decoder: key presses, mouse actions, paste blocks, focus changes, resizes,
// and device status reports. Events are immutable values; once emitted they
// are owned by the consumer.
package event
