// Package ingest turns raw dataset files into typed records.
//
// Each adapter reads one header row, resolves the columns it needs by
// case-insensitive name, and converts the remaining rows. Two kinds of
// failure exist. A structural failure (unreadable source, missing header
// column, tokenizer syntax error) aborts the whole file: LoadAll returns no
// records and an error wrapping ErrStructural. A row that fails validation
// (bad ZIP, bad timestamp, unparsable required number) is dropped silently
// and loading continues.
package ingest
