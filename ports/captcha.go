package ports

// CaptchaRenderer turns a challenge answer into the payload shown to the
// client. Image rendering is a deployment concern; the core only hands
// over the answer text.
type CaptchaRenderer interface {
	// Render returns the rendered payload and its MIME type.
	Render(answer string) (data []byte, mime string, err error)
}
