// Package tabular reads comma-delimited rows one character at a time.
//
// The grammar is the usual spreadsheet export dialect: fields may be wrapped
// in double quotes, a quoted field may contain commas, CR and LF, and a
// doubled quote inside a quoted field stands for one literal quote. Rows end
// with LF or CRLF. A CR that is not immediately followed by LF outside of a
// quoted field is a syntax error, as is a quote in the middle of an unquoted
// field.
package tabular
