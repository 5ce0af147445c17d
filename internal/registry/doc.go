// Package registry holds the current marker generation and its backing elements.
//
// Each installed generation is an immutable arena: the ordered markers, an id to
// position index built at install time, and one backing array per slot kind that is
// index-aligned with the markers. Installing a generation swaps the whole arena with a
// single atomic store, so readers never observe markers from one generation paired with
// backing elements from another.
//
// Writers (Stage, ReplaceAll, Clear) are serialised. Readers (Element, LookupIndexByID,
// MarkerByID, Markers) are lock-free and observe one arena snapshot per call.
//
// Backing elements are filled in by the mounting process through Attach after the map
// engine has rendered the generation. Until then Element returns
// marker.ErrElementNotReady.
package registry
