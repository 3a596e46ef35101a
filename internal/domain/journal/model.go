package journal

// Storage type tags on photo and video records. Exactly one storage
// variant is populated per record.
const (
	StorageInline = "inline" // encoded payload embedded in the record
	StorageBlob   = "blob"   // object in the blob store, URL + opaque id
	StorageLocal  = "local"  // file under the local media directory
)

// Date layouts used across the journal documents.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// PhotoRecord is one photo entry. Ids are unique within the collection at
// insertion time but may repeat after deletions (see recordstore.Append).
type PhotoRecord struct {
	ID           int    `json:"id"`
	OriginalName string `json:"original_name"`
	Date         string `json:"date"`
	Caption      string `json:"caption"`
	UploadDate   string `json:"upload_date"`
	FileSize     int64  `json:"file_size"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	StorageType  string `json:"storage_type"`
	Base64Data   string `json:"base64_data,omitempty"`
	URL          string `json:"url,omitempty"`
	BlobID       string `json:"blob_id,omitempty"`
	FileName     string `json:"file_name,omitempty"`
}

// HasMedia reports whether the record still points at renderable bytes.
// Legacy records that predate permanent storage have none.
func (p PhotoRecord) HasMedia() bool {
	return p.Base64Data != "" || p.URL != "" || p.FileName != ""
}

// VideoRecord is one video entry. Video payloads are never embedded; they
// always live in the blob store.
type VideoRecord struct {
	ID           int    `json:"id"`
	OriginalName string `json:"original_name"`
	Date         string `json:"date"`
	Caption      string `json:"caption"`
	UploadDate   string `json:"upload_date"`
	FileSize     int64  `json:"file_size"`
	StorageType  string `json:"storage_type"`
	URL          string `json:"url"`
	BlobID       string `json:"blob_id"`
}

// LetterRecord is one written letter.
type LetterRecord struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	CreatedDate string `json:"created_date"`
}

// TimelineEventRecord is one timeline milestone. Events carry no id and
// are append-only.
type TimelineEventRecord struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MemoryKind tags the record kind inside a Memory.
type MemoryKind string

const (
	KindPhoto  MemoryKind = "photo"
	KindVideo  MemoryKind = "video"
	KindLetter MemoryKind = "letter"
)

// Memory is one record drawn from the union of all collections, tagged
// with its kind. Exactly one of the pointers is set.
type Memory struct {
	Kind   MemoryKind
	Photo  *PhotoRecord
	Video  *VideoRecord
	Letter *LetterRecord
}
