package models

// CipheredData is opaque ciphertext produced by the client. Its structure and
// meaning are unknown to the server and to the database.
type CipheredData string

// String returns the raw ciphertext.
func (c CipheredData) String() string {
	return string(c)
}

// IsEmpty reports whether no ciphertext was supplied.
func (c CipheredData) IsEmpty() bool {
	return c == ""
}
