/*
Package json implements a JSON document library: parsing to a tree (DOM),
event-driven parsing (SAX), and printing, built on a bit-exact number codec.

The package is a from-scratch reimplementation of the recursive-descent
parser found in older C JSON libraries, generalized to Go: the DOM and SAX
drivers share the same scanner and string/number decoding primitives but
walk the grammar independently, one building a tree and the other invoking
callbacks. Both can read from a fixed byte slice or an io.Reader with
on-demand refill, and can optionally decode string literals in place into a
caller-owned buffer.

# Parsing

	v, err := json.ParseString(`{"a":1,"b":[true,null,-2]}`)

Parsing accepts an explicit ParseChoices for control over strictness,
buffer sizing, and arena allocation:

	v, err := json.ParseBytes(data, json.ParseChoices{
		Strictness: json.StrictLevel1,
	})

# Streaming

	err := json.ParseSAX(r, handler, json.ParseChoices{})

handler implements SAXHandler and receives events in depth-first document
order; returning ErrCallbackStop from a handler method cancels the parse
cleanly.

# Printing

	out, err := v.Print(json.PrintChoices{Formatted: true})

SAXPrinter mirrors this at the event level, emitting JSON text directly
from StartObject/Key/Int32/... calls without building a tree — useful for
re-serializing a stream driven by ParseSAX without ever materializing a
*Value:

	sp := json.NewSAXPrinter(json.PrintChoices{})
	err := json.ParseSAX(r, sp, json.ParseChoices{})
	out, err := sp.Finish()

# Strictness

Three levels gate RFC 8259 extensions this package accepts by default:
relaxed (hex integers when ParseChoices.AllowHex is set, control bytes in
strings, empty keys, scalar roots),
StrictLevel1 (rejects empty keys and trailing garbage), and StrictLevel2
(additionally rejects hex integers, leading zeros, and sub-space bytes in
strings). See StrictLevel.

# Number codec

dtoa (float64 to shortest round-trip decimal string) and atod (decimal to
float64) are exposed directly as FormatFloat and ParseFloatJSON for callers
that want JSON's exact number rendering rules without a full parse/print
round-trip.
*/
package json
