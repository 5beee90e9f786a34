package inidoc

// Load parses the file at path and returns its values together with the
// document handle that Save needs to write them back.
func Load(path string) (*Store, *Document, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	store := LoadStore(doc.SanitizedText())
	doc.RestoreRawValues(store)
	return store, doc, nil
}

// Save writes the full current contents of store through doc.
func Save(store *Store, doc *Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	return doc.Write(store)
}

// SaveFile writes store to path when no document handle was kept. The file is
// parsed first so that its current layout is preserved.
func SaveFile(path string, store *Store) error {
	doc, err := ParseFile(path)
	if err != nil {
		return err
	}
	return doc.Write(store)
}
