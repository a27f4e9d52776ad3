// Package html extracts readable text from HTML documents.
// Scripts, styles and other non-content elements are dropped with goquery,
// the remaining body is converted to Markdown and the Markdown is stripped
// to plain text so headings, paragraphs and lists keep their line structure.
package html
