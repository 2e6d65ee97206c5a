package distribution

// ManifestEntry is one file to place inside the product folder.
type ManifestEntry struct {
	Filename string
	Data     []byte
	MimeType string
}

// UploadManifest names the target product folder and the files to place
// inside it. Built by the per-product processor from a generation
// result and discarded after upload confirmation.
type UploadManifest struct {
	Folder  string // "{listingId}_{productId}"
	Entries []ManifestEntry
}

// Artifact filenames are deterministic so re-runs overwrite in place.
const (
	VideoFilename = "video.mp4"
	BlogFilename  = "blog.txt"
)

// NewProductManifest builds the standard two-entry manifest for a
// product's generated artifacts.
func NewProductManifest(folder string, video []byte, videoMime, blog string) UploadManifest {
	if videoMime == "" {
		videoMime = MimeTypeMP4
	}
	return UploadManifest{
		Folder: folder,
		Entries: []ManifestEntry{
			{Filename: VideoFilename, Data: video, MimeType: videoMime},
			{Filename: BlogFilename, Data: []byte(blog), MimeType: MimeTypeText},
		},
	}
}
