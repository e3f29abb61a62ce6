// Package zcjson decodes JSON held in a zcstring.View without copying the
// strings it contains.
//
// Documents are parsed with gjson over the View's own text, so every string
// value free of escape sequences comes back as a View into the document.
// Escaped strings are unescaped into new memory. Go string fields are
// filled the same way: they alias the document unless escaped.
//
//	var entry struct {
//		Level   zcstring.View `json:"level"`
//		Message zcstring.View `json:"message"`
//	}
//	err := zcjson.Unmarshal(doc, &entry)
//
// Set Options.CopyStrings to detach decoded values from large documents.
package zcjson
