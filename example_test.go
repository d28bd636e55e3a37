package json_test

import (
	"fmt"

	json "github.com/mattn-json/gojson"
)

// Example demonstrates parsing a document, snapshotting it with DeepCopy,
// editing the resulting tree in place, and re-printing it without ever
// bouncing back through the standard json package.
func Example() {
	doc, err := json.ParseString(`{
		"title": "Rubber Soul",
		"year": 1965,
		"tracks": ["Drive My Car", "Norwegian Wood"]
	}`)
	if err != nil {
		fmt.Println("parse error:", err)
		return
	}

	// Take an independent snapshot before mutating, so later comparisons
	// aren't fooled by shared backing storage.
	original := doc.DeepCopy()

	tracks, err := doc.Key("tracks").AsArray()
	if err != nil {
		fmt.Println("tracks error:", err)
		return
	}
	if len(tracks) != 2 {
		fmt.Println("unexpected track count:", len(tracks))
		return
	}

	// Drop the second track and append a new one in its place.
	if _, err := doc.Key("tracks").DetachChild(1); err != nil {
		fmt.Println("detach error:", err)
		return
	}
	replacement, _ := json.ParseString(`"In My Life"`)
	if err := doc.Key("tracks").AddChild(replacement); err != nil {
		fmt.Println("add error:", err)
		return
	}

	out, err := doc.Print(json.PrintChoices{})
	if err != nil {
		fmt.Println("print error:", err)
		return
	}
	fmt.Println(string(out))

	// original is untouched by the edits above: DeepCopy never aliases the
	// tree it was taken from.
	origTracks, _ := original.Key("tracks").AsArray()
	fmt.Println("original track count:", len(origTracks))

	// Output:
	// {"title":"Rubber Soul","year":1965,"tracks":["Drive My Car","In My Life"]}
	// original track count: 2
}

// Example_strictness shows how ParseChoices.Strictness changes what counts
// as valid input: relaxed parsing (the default) tolerates a trailing comma
// that StrictLevel1 rejects.
func Example_strictness() {
	const withTrailingComma = `[1, 2, 3,]`

	if _, err := json.ParseBytes([]byte(withTrailingComma), json.ParseChoices{}); err != nil {
		fmt.Println("relaxed failed unexpectedly:", err)
		return
	}
	fmt.Println("relaxed: ok")

	_, err := json.ParseBytes([]byte(withTrailingComma), json.ParseChoices{Strictness: json.StrictLevel1})
	if err == nil {
		fmt.Println("strict: unexpectedly accepted")
		return
	}
	fmt.Println("strict: rejected")

	// Output:
	// relaxed: ok
	// strict: rejected
}

// Example_saxPrinter drives SAXPrinter directly from hand-written events,
// without ever building a *Value tree, which is the point of the SAX side
// of this package: producing JSON output from a stream of calls that may
// come from something other than a parsed document.
func Example_saxPrinter() {
	p := json.NewSAXPrinter(json.PrintChoices{})

	if err := p.StartObject(); err != nil {
		fmt.Println("start object error:", err)
		return
	}
	if err := p.Key("album"); err != nil {
		fmt.Println("key error:", err)
		return
	}
	if err := p.String("Abbey Road"); err != nil {
		fmt.Println("string error:", err)
		return
	}
	if err := p.Key("year"); err != nil {
		fmt.Println("key error:", err)
		return
	}
	if err := p.Int32(1969); err != nil {
		fmt.Println("int error:", err)
		return
	}
	if err := p.EndObject(false); err != nil {
		fmt.Println("end object error:", err)
		return
	}

	out, err := p.Finish()
	if err != nil {
		fmt.Println("finish error:", err)
		return
	}
	fmt.Println(string(out))

	// Output:
	// {"album":"Abbey Road","year":1969}
}
