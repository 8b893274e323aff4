// Package streamtext provides incremental text filters for model output
// streams. The filters operate on arbitrary chunk boundaries: a delimiter,
// fence marker, or tag may be split across any number of chunks and the
// concatenated output is identical to filtering the whole string at once.
//
// Each filter is a small explicit state machine with a bounded lookback
// window. All mutable state lives in the filter value; one filter instance
// serves exactly one stream and is not safe for concurrent use.
package streamtext
