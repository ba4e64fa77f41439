package document

// FrameInfo is per-frame metadata.
type FrameInfo struct {
	DurationMs int
}
