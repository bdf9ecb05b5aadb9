package bootstrap

// PrepareRequest is the pipeline input.
type PrepareRequest struct {
	DevicePath string
	FetchRef   string // URL or mirror key, interpreted by the fetcher
	MountPath  string
}

// PrepareResponse is the pipeline output (accumulated across transitions).
type PrepareResponse struct {
	// From Fetch
	ImagePath string
	SHA256    string
	Size      int64

	// From Unmount
	Status string
}

// State names
const (
	StateFormat  = "format"
	StateMount   = "mount"
	StateFetch   = "fetch"
	StatePresent = "present"
	StateUnmount = "unmount"
	StateFailed  = "failed"
)

// Status values
const (
	StatusComplete = "complete"
)
