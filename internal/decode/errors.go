// ABOUTME: Error types reported by the software decode pipeline
// ABOUTME: DecodeError wraps engine failures with the offending source URI
package decode

import "fmt"

// DecodeError reports that the decode engine could not produce any audio
// frames for a source.
type DecodeError struct {
	URI string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URI, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
