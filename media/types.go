package media

// File is one user-submitted upload as handed to the ingestion pipeline
type File struct {
	Name     string
	MimeType string
	Data     []byte
}
