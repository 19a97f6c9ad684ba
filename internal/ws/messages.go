package ws

import "unicode/utf8"

// Message is an opaque text payload. The relay never looks inside it.
type Message string

// Valid reports whether msg can go out as a websocket text frame. Browsers drop
// the connection on a text frame that is not UTF-8.
func (m Message) Valid() bool { return utf8.ValidString(string(m)) }
