package catalog

// ImageIndex maps a composite product key to its ordered image
// references. It is built once from the optional images JSON document
// before a batch starts and is never mutated afterwards.
type ImageIndex map[string][]ImageRef

// Lookup returns the images recorded for the key, or nil if the index
// has no entry (the processor then proceeds with an empty image set).
func (ix ImageIndex) Lookup(key string) []ImageRef {
	if ix == nil {
		return nil
	}
	return ix[key]
}

// Add appends images under the key, preserving insertion order.
// Entries with no images are ignored.
func (ix ImageIndex) Add(key string, images []ImageRef) {
	if len(images) == 0 {
		return
	}
	ix[key] = append(ix[key], images...)
}
