// Package normalisers turns uploaded files into plain text.
//
// Each subpackage implements driven.Extractor for one format. Registry
// dispatches on file extension; NewDefaultRegistry wires every format
// docchat accepts (txt, md, html, docx, pdf).
package normalisers
