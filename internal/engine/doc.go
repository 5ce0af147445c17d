// Package engine defines the boundary between the marker pipeline and a map engine.
//
// A map engine owns the visual elements: it reports the visible bounds, draws the
// markers it is handed, and shows or hides the popup of one marker. The pipeline
// never draws anything itself.
//
// Engines obtain the element behind each marker slot by calling the slot's body
// accessor during their own draw cycle. BodyPuller implements that pull for
// engines in this module. It resolves all slots concurrently, retries elements that
// are not mounted yet, and keeps the failure of one slot local to that slot.
package engine
