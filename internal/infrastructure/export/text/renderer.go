package text

// Renderer emits the insight content unchanged. The title is already part of
// the download filename.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(content, _ string) ([]byte, error) {
	return []byte(content), nil
}
